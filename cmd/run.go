package cmd

import (
	"github.com/spf13/cobra"
)

// runCmd is the explicit spelling of the default action.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scanner once (the default action)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
