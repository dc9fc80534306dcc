// Package config loads the user-facing options file for a vault.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okatz/anchorsync/pkg/task"
)

// Config is the vault-level configuration, read from
// .anchorsync/config.yaml when present.
type Config struct {
	// DefaultList receives tasks whose lines carry no list-name tag.
	DefaultList string `yaml:"defaultList"`

	// AutoCreateList creates a missing remote list instead of failing.
	AutoCreateList bool `yaml:"autoCreateList"`

	// BaseURL overrides the remote service endpoint.
	BaseURL string `yaml:"baseURL"`

	// Include and Exclude are doublestar patterns selecting documents.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Display controls the on-page task syntax.
	Display task.Options `yaml:"display"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DefaultList: "Tasks",
		Include:     []string{"**/*.md"},
		Display:     task.DefaultOptions(),
	}
}

// Load reads the config file, layering it over defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Display.Template == "" {
		cfg.Display.Template = task.DefaultOptions().Template
	}
	return cfg, nil
}
