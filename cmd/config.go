package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swingscan/scanrun/internal/commands"
	"github.com/swingscan/scanrun/internal/config"
	"github.com/swingscan/scanrun/internal/launcher"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the launcher configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and where it came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := launcher.Root()
		if err != nil {
			return err
		}

		cfg, source, err := config.LoadWithPath(configPath, root)
		if err != nil {
			if configPath == "" && errors.Is(err, config.ErrConfigNotFound) {
				cfg, source = config.Default(), ""
			} else {
				return err
			}
		}

		return commands.ConfigShow(commands.ConfigShowOptions{
			Config: cfg,
			Source: source,
			Writer: os.Stdout,
		})
	},
}

const sampleConfig = `# scanrun configuration. Every field is optional; the launcher runs with
# built-in defaults when this file is absent.

# interpreter: /usr/local/bin/python3
# script: main.py
# log_dir: data/run_logs
# log_file: run.log

# history:
#   disabled: false
#   database: runs.db

# notify:
#   url: https://hooks.example.com/scanrun
#   timeout: 10s
#   retry_attempts: 3
#   subject_template: 'scanrun: {{ .Script }} exited {{ .ExitCode }}'
#   body_template: 'Run {{ .RunID }} took {{ .Duration }}'
`

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented sample scanrun.yaml next to the binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := launcher.Root()
		if err != nil {
			return err
		}

		path := filepath.Join(root, "scanrun.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
