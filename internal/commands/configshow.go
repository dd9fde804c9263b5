package commands

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/swingscan/scanrun/internal/config"
)

// ConfigShowOptions contains parameters for printing the effective config.
type ConfigShowOptions struct {
	Config *config.Config
	// Source is the config file the values came from; empty means built-in
	// defaults.
	Source string
	Writer io.Writer
}

// ConfigShow prints the effective configuration as YAML, with its source.
func ConfigShow(opts ConfigShowOptions) error {
	source := opts.Source
	if source == "" {
		source = "(built-in defaults)"
	}
	fmt.Fprintf(opts.Writer, "# source: %s\n", source)

	out, err := yaml.Marshal(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = opts.Writer.Write(out)
	return err
}
