package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/swingscan/scanrun/internal/storage"
)

var (
	runIDStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2980b9", Dark: "#3498db"})
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#16a085", Dark: "#1abc9c"})
	failStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#c0392b", Dark: "#e74c3c"})
	detailKeyStyle = lipgloss.NewStyle().Faint(true)
)

func exitCodeLabel(code int) string {
	label := fmt.Sprintf("exit %d", code)
	if code == 0 {
		return okStyle.Render(label)
	}
	return failStyle.Render(label)
}

// HistoryListOptions contains parameters for listing recorded runs.
type HistoryListOptions struct {
	Storage   storage.RunLister
	Writer    io.Writer
	Limit     int
	Ascending bool
}

// HistoryList prints recorded runs, one per line, newest first by default.
func HistoryList(ctx context.Context, opts HistoryListOptions) error {
	runs, err := opts.Storage.ListRuns(ctx, storage.ListRunsOptions{
		Limit:          opts.Limit,
		AscendingOrder: opts.Ascending,
	})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(opts.Writer, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(opts.Writer, "%s  %s  %s  %s  %d bytes\n",
			runIDStyle.Render(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			exitCodeLabel(run.ExitCode),
			run.Duration().Round(time.Second),
			run.LogBytes,
		)
	}
	return nil
}

// HistoryShowOptions contains parameters for showing one run.
type HistoryShowOptions struct {
	Storage storage.RunLister
	RunID   string
	Writer  io.Writer
}

// HistoryShow prints the details of a single recorded run.
func HistoryShow(ctx context.Context, opts HistoryShowOptions) error {
	run, err := opts.Storage.GetRun(ctx, opts.RunID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	rows := []struct{ key, value string }{
		{"run", runIDStyle.Render(run.ID)},
		{"started", run.StartedAt.Local().Format(time.RFC3339)},
		{"finished", run.FinishedAt.Local().Format(time.RFC3339)},
		{"duration", run.Duration().Round(time.Millisecond).String()},
		{"status", exitCodeLabel(run.ExitCode)},
		{"interpreter", run.Interpreter},
		{"script", run.Script},
		{"log bytes", fmt.Sprintf("%d", run.LogBytes)},
	}
	for _, row := range rows {
		fmt.Fprintf(opts.Writer, "%s %s\n", detailKeyStyle.Render(fmt.Sprintf("%-12s", row.key)), row.value)
	}
	return nil
}

// HistoryDeleteOptions contains parameters for deleting recorded runs.
type HistoryDeleteOptions struct {
	Storage storage.RunDeleter
	RunIDs  []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// HistoryDelete deletes one or more recorded runs. Failures on individual
// runs are reported and the remaining deletions proceed.
func HistoryDelete(ctx context.Context, opts HistoryDeleteOptions) error {
	for _, id := range opts.RunIDs {
		if err := opts.Storage.DeleteRun(ctx, id); err != nil {
			fmt.Fprintf(opts.Stderr, "Error deleting run %s: %v\n", id, err)
			continue
		}
		fmt.Fprintf(opts.Stdout, "Deleted run %s\n", id)
	}
	return nil
}
