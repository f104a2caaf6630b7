// Package deb provides the deb provider for vendor packages distributed as
// downloadable .deb files rather than through an apt repository.
package deb

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config represents the deb section of the configuration.
type Config struct {
	Installers []Installer `mapstructure:"installers"`
}

// Installer represents a .deb file to download and install.
type Installer struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
	// Package is the dpkg package name the .deb registers, used for the
	// installed probe. Defaults to Name.
	Package string `mapstructure:"package"`
}

// PackageName returns the dpkg name used to probe installation state.
func (i Installer) PackageName() string {
	if i.Package != "" {
		return i.Package
	}
	return i.Name
}

// ParseConfig parses the deb configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid deb config: %w", err)
	}

	for _, inst := range cfg.Installers {
		if inst.Name == "" {
			return nil, fmt.Errorf("installer must have a name")
		}
		if inst.URL == "" {
			return nil, fmt.Errorf("installer %s must have a url", inst.Name)
		}
	}

	return cfg, nil
}
