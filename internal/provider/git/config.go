// Package git provides the git provider for global git configuration.
package git

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Config represents the git section of the configuration.
type Config struct {
	// ConfigFile is the git config file to manage. Defaults to ~/.gitconfig.
	ConfigFile string `mapstructure:"config_file"`
	// Settings maps dotted keys like "init.defaultBranch" to values.
	Settings map[string]string `mapstructure:"settings"`
}

// ParseConfig parses the git configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid git config: %w", err)
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = "~/.gitconfig"
	}

	for key := range cfg.Settings {
		if _, _, err := SplitKey(key); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// SplitKey splits a dotted git config key into section and option name.
// "init.defaultBranch" becomes ("init", "defaultBranch").
func SplitKey(key string) (section, name string, err error) {
	idx := strings.Index(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", fmt.Errorf("git setting %q must be section.name", key)
	}
	return key[:idx], key[idx+1:], nil
}
