// Package files provides the files provider for managed file content,
// permissions, and single configuration lines.
package files

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Config represents the files section of the configuration.
type Config struct {
	Copies []Copy `mapstructure:"copies"`
	Modes  []Mode `mapstructure:"modes"`
	Lines  []Line `mapstructure:"lines"`
}

// Copy represents a file copied into place with a fixed mode.
type Copy struct {
	Src  string `mapstructure:"src"`
	Dest string `mapstructure:"dest"`
	Mode string `mapstructure:"mode"` // Octal string, e.g. "0644"
}

// Mode represents a permissions assertion on an existing path.
type Mode struct {
	Path string `mapstructure:"path"`
	Mode string `mapstructure:"mode"` // Octal string, e.g. "0700"
}

// Line represents a line that must appear exactly once in a file.
type Line struct {
	Path string `mapstructure:"path"`
	Line string `mapstructure:"line"`
	// Sudo appends through sudo tee -a for root-owned files.
	Sudo bool `mapstructure:"sudo"`
}

// ParseConfig parses the files configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid files config: %w", err)
	}

	for _, c := range cfg.Copies {
		if c.Src == "" || c.Dest == "" {
			return nil, fmt.Errorf("copy entry must have src and dest")
		}
		if c.Mode != "" {
			if _, err := ParseMode(c.Mode); err != nil {
				return nil, err
			}
		}
	}
	for _, m := range cfg.Modes {
		if m.Path == "" {
			return nil, fmt.Errorf("mode entry must have a path")
		}
		if _, err := ParseMode(m.Mode); err != nil {
			return nil, err
		}
	}
	for _, l := range cfg.Lines {
		if l.Path == "" || l.Line == "" {
			return nil, fmt.Errorf("line entry must have path and line")
		}
	}

	return cfg, nil
}

// ParseMode parses an octal mode string like "0644".
func ParseMode(mode string) (os.FileMode, error) {
	if mode == "" {
		return 0, fmt.Errorf("mode must not be empty")
	}
	parsed, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: must be octal like 0644", mode)
	}
	return os.FileMode(parsed), nil
}
