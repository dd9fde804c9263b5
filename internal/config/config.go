package config

import (
	"os/exec"
	"path/filepath"
	"time"
)

// Default locations, relative to the launcher root.
const (
	DefaultScript  = "main.py"
	DefaultLogDir  = "data/run_logs"
	DefaultLogFile = "run.log"
	DefaultHistory = "runs.db"
)

// Config is the launcher configuration. Every field has a usable default so
// the launcher runs with no config file at all.
type Config struct {
	// Interpreter is the Python interpreter used to run the scanner. When
	// empty, python3 is resolved from PATH, falling back to python.
	Interpreter string `yaml:"interpreter"`

	// Script is the scanner entry point, relative to the launcher root.
	Script string `yaml:"script"`

	// LogDir is the run log directory, relative to the launcher root.
	LogDir string `yaml:"log_dir"`

	// LogFile is the run log file name inside LogDir.
	LogFile string `yaml:"log_file"`

	History HistoryConfig `yaml:"history"`

	// Notify, when present, enables the completion webhook.
	Notify *NotifyConfig `yaml:"notify"`
}

// HistoryConfig controls run-history recording.
type HistoryConfig struct {
	// Disabled turns off run recording entirely.
	Disabled bool `yaml:"disabled"`

	// Database is the history database file name inside LogDir.
	Database string `yaml:"database"`
}

// NotifyConfig configures the completion webhook.
type NotifyConfig struct {
	URL string `yaml:"url" validate:"required,http_url"`

	// Timeout bounds a single delivery attempt, e.g. "10s".
	Timeout string `yaml:"timeout"`

	// RetryAttempts is the maximum number of delivery attempts.
	RetryAttempts int `yaml:"retry_attempts" validate:"omitempty,gte=1,lte=10"`

	// SubjectTemplate and BodyTemplate are text/template strings rendered
	// with the run result; sprig functions are available.
	SubjectTemplate string `yaml:"subject_template"`
	BodyTemplate    string `yaml:"body_template"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Script:  DefaultScript,
		LogDir:  DefaultLogDir,
		LogFile: DefaultLogFile,
		History: HistoryConfig{Database: DefaultHistory},
	}
}

// applyDefaults fills zero-valued fields after parsing a config file, so a
// partial file only overrides what it names.
func (c *Config) applyDefaults() {
	if c.Script == "" {
		c.Script = DefaultScript
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.History.Database == "" {
		c.History.Database = DefaultHistory
	}
	if c.Notify != nil {
		if c.Notify.Timeout == "" {
			c.Notify.Timeout = "10s"
		}
		if c.Notify.RetryAttempts == 0 {
			c.Notify.RetryAttempts = 3
		}
	}
}

// ResolveInterpreter returns the interpreter to invoke. A configured value is
// used verbatim; otherwise python3 is resolved from PATH, then python. The
// final fallback is the bare name python3 so that the eventual spawn error
// names the missing interpreter.
func (c *Config) ResolveInterpreter() string {
	if c.Interpreter != "" {
		return c.Interpreter
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return "python3"
}

// HistoryPath returns the absolute history database path for a root.
func (c *Config) HistoryPath(root string) string {
	return filepath.Join(root, c.LogDir, c.History.Database)
}

// NotifyTimeout parses the notify timeout, defaulting to 10s on absence or a
// malformed value.
func (n *NotifyConfig) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
