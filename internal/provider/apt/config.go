// Package apt provides the apt provider for package management on Debian/Ubuntu.
package apt

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Config represents the apt section of the configuration.
type Config struct {
	// Update refreshes the package index before any package is installed.
	Update   bool      `mapstructure:"update"`
	PPAs     []string  `mapstructure:"ppas"`
	Packages []Package `mapstructure:"packages"`
}

// Package represents an apt package to install.
type Package struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"` // Optional: specific version
}

// FullName returns the package name with optional version specifier.
func (p Package) FullName() string {
	if p.Version != "" {
		return fmt.Sprintf("%s=%s", p.Name, p.Version)
	}
	return p.Name
}

// ParseConfig parses the apt configuration from a raw map. Packages may be
// given as bare strings or as {name, version} objects.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     cfg,
		DecodeHook: stringToPackageHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid apt config: %w", err)
	}

	for _, pkg := range cfg.Packages {
		if pkg.Name == "" {
			return nil, fmt.Errorf("package must have a name")
		}
	}

	return cfg, nil
}

// stringToPackageHook lets a package entry be written as a bare string.
func stringToPackageHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Package{}) {
		return data, nil
	}
	return Package{Name: data.(string)}, nil
}
