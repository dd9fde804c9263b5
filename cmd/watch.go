package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/swingscan/scanrun/internal/render"
	"github.com/swingscan/scanrun/internal/tail"
)

var watchFromStart bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the run log live",
	Long: `Follow data/run_logs/run.log as the scanner writes to it. On a terminal this
opens a scrollable viewer (quit with q); otherwise appended content is
streamed to stdout until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		logPath := newLauncher(cfg, root).LogPath()

		follower, err := tail.NewFollower(logPath, watchFromStart)
		if err != nil {
			return err
		}

		if !render.IsTTY() {
			err := follower.Follow(cmd.Context(), os.Stdout)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		model := tail.NewModel(follower)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return fmt.Errorf("log viewer failed: %w", err)
		}
		return model.Err()
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchFromStart, "from-start", false, "Show the whole log, not just new content")
	rootCmd.AddCommand(watchCmd)
}
