// Package shell provides the shell provider for managed environment
// variables, aliases, and the user's login shell.
package shell

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config represents the shell section of the configuration.
type Config struct {
	// ConfigFile is the shell rc file that receives managed blocks.
	// Defaults to ~/.zshrc.
	ConfigFile string `mapstructure:"config_file"`
	// Default is the login shell path, e.g. /usr/bin/zsh. Empty leaves the
	// login shell alone.
	Default string            `mapstructure:"default"`
	Env     map[string]string `mapstructure:"env"`
	Aliases map[string]string `mapstructure:"aliases"`
}

// ParseConfig parses the shell configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid shell config: %w", err)
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = "~/.zshrc"
	}

	return cfg, nil
}
