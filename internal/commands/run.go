package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/swingscan/scanrun/internal/launcher"
	"github.com/swingscan/scanrun/internal/notify"
	"github.com/swingscan/scanrun/internal/storage"
)

// Notifier delivers a completion event. Implemented by notify.Notifier.
type Notifier interface {
	Send(ctx context.Context, event notify.Event) error
}

// RunOptions contains parameters for a launcher run.
type RunOptions struct {
	Launcher *launcher.Launcher

	// History records the run when non-nil. Recording failures are
	// warnings, never run failures.
	History storage.RunRecorder

	// Notifier delivers the completion event when non-nil. Delivery
	// failures are warnings, never run failures.
	Notifier Notifier

	// Quiet suppresses the run summary line.
	Quiet bool

	Stderr io.Writer
}

// Run executes the launcher once and returns the exit code to propagate:
// the child's own exit code on a completed run. Setup and spawn failures
// return a non-nil error instead, and the run is not recorded.
func Run(ctx context.Context, opts RunOptions) (int, error) {
	result, err := opts.Launcher.Run(ctx)
	if err != nil {
		return 0, err
	}

	var runID string
	if opts.History != nil {
		runID, err = opts.History.SaveRun(ctx, storage.Run{
			StartedAt:   result.StartedAt,
			FinishedAt:  result.FinishedAt,
			ExitCode:    result.ExitCode,
			Interpreter: opts.Launcher.Interpreter,
			Script:      opts.Launcher.Script,
			LogBytes:    result.LogBytes,
		})
		if err != nil {
			fmt.Fprintf(opts.Stderr, "warning: failed to record run history: %v\n", err)
			runID = ""
		}
	}

	if opts.Notifier != nil {
		event := notify.Event{
			RunID:      runID,
			Script:     opts.Launcher.Script,
			ExitCode:   result.ExitCode,
			StartedAt:  result.StartedAt,
			FinishedAt: result.FinishedAt,
			Duration:   result.Duration(),
			LogPath:    result.LogPath,
			LogBytes:   result.LogBytes,
		}
		if err := opts.Notifier.Send(ctx, event); err != nil {
			fmt.Fprintf(opts.Stderr, "warning: failed to send notification: %v\n", err)
		}
	}

	if !opts.Quiet {
		id := runID
		if id == "" {
			id = "(unrecorded)"
		}
		fmt.Fprintf(opts.Stderr, "run %s finished: exit %d, %d bytes logged to %s\n",
			id, result.ExitCode, result.LogBytes, result.LogPath)
	}

	return result.ExitCode, nil
}
