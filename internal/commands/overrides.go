package commands

import (
	"github.com/spf13/pflag"

	"github.com/swingscan/scanrun/internal/config"
)

// OverrideFlags holds pointers to the CLI flag variables that can override
// config file values for a single run. These are populated by cobra flag
// bindings in the cmd package.
type OverrideFlags struct {
	Interpreter *string
	Script      *string
}

// ApplyFlagOverrides copies into cfg the override values whose corresponding
// CLI flags were explicitly provided by the user, leaving config file values
// in place otherwise.
func ApplyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config, overrides OverrideFlags) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "interpreter":
			cfg.Interpreter = *overrides.Interpreter
		case "script":
			cfg.Script = *overrides.Script
		}
	})
}
