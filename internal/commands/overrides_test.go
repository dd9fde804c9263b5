package commands

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/swingscan/scanrun/internal/config"
)

func TestApplyFlagOverrides(t *testing.T) {
	t.Run("no flags set leaves config untouched", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var interpreter string
		flags.StringVar(&interpreter, "interpreter", "", "")

		cfg := config.Default()
		cfg.Interpreter = "/opt/venv/bin/python"
		ApplyFlagOverrides(flags, cfg, OverrideFlags{Interpreter: &interpreter})

		if cfg.Interpreter != "/opt/venv/bin/python" {
			t.Errorf("expected configured interpreter to survive, got %q", cfg.Interpreter)
		}
	})

	t.Run("one flag set overrides only that field", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var interpreter, script string
		flags.StringVar(&interpreter, "interpreter", "", "")
		flags.StringVar(&script, "script", "", "")

		if err := flags.Parse([]string{"--interpreter", "/usr/bin/python3.12"}); err != nil {
			t.Fatal(err)
		}

		cfg := config.Default()
		ApplyFlagOverrides(flags, cfg, OverrideFlags{
			Interpreter: &interpreter,
			Script:      &script,
		})

		if cfg.Interpreter != "/usr/bin/python3.12" {
			t.Errorf("expected interpreter override, got %q", cfg.Interpreter)
		}
		if cfg.Script != config.DefaultScript {
			t.Errorf("expected default script, got %q", cfg.Script)
		}
	})

	t.Run("flag set to empty still overrides", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var interpreter string
		flags.StringVar(&interpreter, "interpreter", "", "")

		if err := flags.Parse([]string{"--interpreter", ""}); err != nil {
			t.Fatal(err)
		}

		cfg := config.Default()
		cfg.Interpreter = "/opt/venv/bin/python"
		ApplyFlagOverrides(flags, cfg, OverrideFlags{Interpreter: &interpreter})

		if cfg.Interpreter != "" {
			t.Errorf("expected explicit empty override, got %q", cfg.Interpreter)
		}
	})
}
