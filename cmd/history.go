package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swingscan/scanrun/internal/commands"
	"github.com/swingscan/scanrun/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded scanner runs",
}

var (
	historyListLimit     int
	historyListAscending bool
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openRunStorage(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryList(cmd.Context(), commands.HistoryListOptions{
			Storage:   store,
			Writer:    os.Stdout,
			Limit:     historyListLimit,
			Ascending: historyListAscending,
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the details of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openRunStorage(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryShow(cmd.Context(), commands.HistoryShowOptions{
			Storage: store,
			RunID:   args[0],
			Writer:  os.Stdout,
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>...",
	Short: "Delete recorded runs by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openRunStorage(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return commands.HistoryDelete(cmd.Context(), commands.HistoryDeleteOptions{
			Storage: store,
			RunIDs:  args,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		})
	},
}

// openRunStorage opens the history database for the effective configuration,
// creating the log directory if this is the first thing to touch it.
func openRunStorage(cmd *cobra.Command) (*storage.Sqlite, *sql.DB, error) {
	cfg, root, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.HistoryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return storage.InitRunStorage(cmd.Context(), path)
}

func init() {
	historyListCmd.Flags().IntVarP(&historyListLimit, "limit", "n", 0, "Maximum number of runs to list (0 = all)")
	historyListCmd.Flags().BoolVar(&historyListAscending, "ascending", false, "List oldest runs first")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
