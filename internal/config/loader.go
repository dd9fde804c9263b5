package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound indicates no config file was found in the standard search
// locations. Callers that only need a runnable configuration can treat it as
// "use defaults".
var ErrConfigNotFound = errors.New("configuration file not found")

var configNames = []string{"scanrun.yaml", "scanrun.yml"}

// Load returns the effective configuration. An explicit path must exist; with
// no explicit path, the launcher root is searched first, then the user config
// directory, and if neither holds a config file the defaults are returned
// without error.
func Load(explicitPath, root string) (*Config, error) {
	cfg, _, err := LoadWithPath(explicitPath, root)
	if err != nil {
		if explicitPath == "" && errors.Is(err, ErrConfigNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadWithPath is Load but also reports which file was read. The returned
// path is empty when defaults are in effect. Unlike Load, the not-found case
// surfaces as ErrConfigNotFound so callers can report the search outcome.
func LoadWithPath(explicitPath, root string) (*Config, string, error) {
	configPath := explicitPath
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if os.IsNotExist(err) {
				return nil, "", fmt.Errorf("specified config file does not exist: %s", configPath)
			}
			return nil, "", fmt.Errorf("cannot access config file %s: %w", configPath, err)
		}
	} else {
		found, err := findConfigFile(root)
		if err != nil {
			return nil, "", err
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, configPath, nil
}

// findConfigFile searches the launcher root, then the user config directory.
func findConfigFile(root string) (string, error) {
	for _, name := range configNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, name := range configNames {
			path := filepath.Join(userConfigDir, "scanrun", name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// parse unmarshals config data. Environment variables are expanded in the raw
// content first, supporting both $VAR and ${VAR} syntax, so values like
// interpreter paths can come from the environment.
func parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing YAML config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}
