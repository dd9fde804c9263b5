package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate checks that the configuration is internally consistent. Struct
// tags cover the field-level rules; the path rules below keep every relative
// location anchored under the launcher root.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for field, value := range map[string]string{
		"script":   c.Script,
		"log_dir":  c.LogDir,
		"log_file": c.LogFile,
	} {
		if err := validateRootRelative(field, value); err != nil {
			return err
		}
	}

	if filepath.Base(c.History.Database) != c.History.Database || c.History.Database == "." {
		return fmt.Errorf("history.database must be a bare file name, got %q", c.History.Database)
	}
	if filepath.Base(c.LogFile) != c.LogFile {
		return fmt.Errorf("log_file must be a bare file name, got %q", c.LogFile)
	}

	if c.Notify != nil && c.Notify.Timeout != "" {
		if _, err := time.ParseDuration(c.Notify.Timeout); err != nil {
			return fmt.Errorf("notify.timeout: %w", err)
		}
	}

	return nil
}

// validateRootRelative rejects absolute paths and paths escaping the root.
func validateRootRelative(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if filepath.IsAbs(value) {
		return fmt.Errorf("%s must be relative to the launcher root, got absolute path %q", field, value)
	}
	clean := filepath.Clean(value)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s must not escape the launcher root, got %q", field, value)
	}
	return nil
}
