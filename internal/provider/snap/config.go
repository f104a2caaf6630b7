// Package snap provides the snap provider for snap package management on Ubuntu.
package snap

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Config represents the snap section of the configuration.
type Config struct {
	Packages []Package `mapstructure:"packages"`
}

// Package represents a snap package to install.
type Package struct {
	Name string `mapstructure:"name"`
	// Classic grants the snap classic confinement. Required by IDEs and
	// other snaps that need full system access.
	Classic bool   `mapstructure:"classic"`
	Channel string `mapstructure:"channel"` // Optional: e.g. "latest/edge"
}

// ParseConfig parses the snap configuration from a raw map. Packages may be
// given as bare strings or as {name, classic, channel} objects.
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
		return nil, fmt.Errorf("invalid snap config: %w", err)
	}

	for _, pkg := range cfg.Packages {
		if pkg.Name == "" {
			return nil, fmt.Errorf("snap package must have a name")
		}
	}

	return cfg, nil
}

func stringToPackageHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Package{}) {
		return data, nil
	}
	return Package{Name: data.(string)}, nil
}
