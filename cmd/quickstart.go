package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swingscan/scanrun/internal/render"
)

//go:embed quickstart.md
var quickstartMD string

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Show a short usage guide",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := render.New().Render(quickstartMD)
		if err != nil {
			// Fall back to the raw markdown rather than failing help output.
			out = quickstartMD
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quickstartCmd)
}
