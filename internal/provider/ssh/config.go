// Package ssh provides the ssh provider for key generation and key
// directory hygiene.
package ssh

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Config represents the ssh section of the configuration.
type Config struct {
	Keys []Key `mapstructure:"keys"`
}

// Key represents an ed25519 keypair to generate.
type Key struct {
	Path    string `mapstructure:"path"`
	Comment string `mapstructure:"comment"`
}

// ParseConfig parses the ssh configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid ssh config: %w", err)
	}

	for _, key := range cfg.Keys {
		if key.Path == "" {
			return nil, fmt.Errorf("ssh key must have a path")
		}
		if !strings.HasPrefix(key.Path, "/") && !strings.HasPrefix(key.Path, "~") {
			return nil, fmt.Errorf("ssh key path %q must be absolute or start with ~", key.Path)
		}
	}

	return cfg, nil
}
