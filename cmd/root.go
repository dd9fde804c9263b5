package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/swingscan/scanrun/internal/commands"
	"github.com/swingscan/scanrun/internal/config"
	"github.com/swingscan/scanrun/internal/launcher"
	"github.com/swingscan/scanrun/internal/notify"
	"github.com/swingscan/scanrun/internal/storage"
	"github.com/swingscan/scanrun/internal/version"
)

var (
	configPath  string
	noHistory   bool
	quiet       bool
	interpreter string
	script      string
)

// ExitError carries an exit code through cobra without translation. A child
// process's non-zero exit is not a launcher error, so it has no message: the
// launcher just exits with the same code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootCmd represents the base command when called without any subcommands.
// Invoking scanrun with no arguments runs the scanner once, preserving the
// zero-argument contract of the original launcher script.
var rootCmd = &cobra.Command{
	Use:   "scanrun",
	Short: "Launcher for the swing-trade scanner",
	Long: `scanrun runs the swing-trade scanner (main.py) from the directory containing
the scanrun binary, appending the scanner's merged stdout and stderr to
data/run_logs/run.log. The scanner's exit code becomes scanrun's exit code.

Runs are recorded to a local history database, and an optional webhook can be
notified on completion. Neither affects the run itself.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Printf("scanrun version %s\n", version.Get())
			return nil
		}
		return executeRun(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// Listen for cancellation
	// - in shells for user-initiated interruption SIGINT
	// - in system sent/container environments, SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: scanrun.yaml next to the binary)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the run summary line")
	rootCmd.PersistentFlags().StringVar(&interpreter, "interpreter", "", "Python interpreter to run the scanner with (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&script, "script", "", "Scanner entry point relative to the launcher root (overrides the config file)")

	rootCmd.Flags().BoolP("version", "v", false, "Print the version number and exit")
}

// loadConfig resolves the launcher root and the effective configuration.
func loadConfig() (*config.Config, string, error) {
	root, err := launcher.Root()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(configPath, root)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// newLauncher builds the launcher from the effective configuration.
func newLauncher(cfg *config.Config, root string) *launcher.Launcher {
	return &launcher.Launcher{
		Root:        root,
		Interpreter: cfg.ResolveInterpreter(),
		Script:      cfg.Script,
		LogDir:      cfg.LogDir,
		LogFile:     cfg.LogFile,
	}
}

// executeRun handles the main functionality of the root command: one scanner
// run with exit-code pass-through.
func executeRun(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}
	commands.ApplyFlagOverrides(cmd.Flags(), cfg, commands.OverrideFlags{
		Interpreter: &interpreter,
		Script:      &script,
	})

	l := newLauncher(cfg, root)
	opts := commands.RunOptions{
		Launcher: l,
		Quiet:    quiet,
		Stderr:   os.Stderr,
	}

	if !cfg.History.Disabled && !noHistory {
		// The history database lives inside the log directory, so setup
		// must happen first. Setup failure is fatal either way.
		if err := l.Setup(); err != nil {
			return err
		}
		store, db, err := storage.InitRunStorage(ctx, cfg.HistoryPath(root))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: run history disabled: %v\n", err)
		} else {
			defer db.Close()
			opts.History = store
		}
	}

	if cfg.Notify != nil {
		opts.Notifier = &notify.Notifier{
			URL:             cfg.Notify.URL,
			Timeout:         cfg.Notify.NotifyTimeout(),
			MaxTries:        cfg.Notify.RetryAttempts,
			SubjectTemplate: cfg.Notify.SubjectTemplate,
			BodyTemplate:    cfg.Notify.BodyTemplate,
		}
	}

	code, err := commands.Run(ctx, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		// Pass-through, no translation and no extra message: the child
		// already wrote whatever it had to say to the run log.
		return &ExitError{Code: code}
	}
	return nil
}
