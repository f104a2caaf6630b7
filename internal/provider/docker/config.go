// Package docker provides the docker provider for the engine, daemon
// configuration, group membership, and the compose plugin.
package docker

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/mod/semver"
)

// Config represents the docker section of the configuration.
type Config struct {
	// Engine installs the Docker engine via the official convenience script.
	Engine bool `mapstructure:"engine"`
	// Group adds the current user to the docker group.
	Group bool `mapstructure:"group"`
	// ComposeMinVersion is the minimum acceptable compose plugin version,
	// e.g. "v2.20.0". Empty skips the check.
	ComposeMinVersion string `mapstructure:"compose_min_version"`
	// NvidiaToolkit installs the NVIDIA container toolkit for GPU workloads.
	NvidiaToolkit bool `mapstructure:"nvidia_toolkit"`
	// Daemon holds keys merged into /etc/docker/daemon.json.
	Daemon map[string]interface{} `mapstructure:"daemon"`
}

// ParseConfig parses the docker configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid docker config: %w", err)
	}

	if cfg.ComposeMinVersion != "" && !semver.IsValid(cfg.ComposeMinVersion) {
		return nil, fmt.Errorf("compose_min_version %q is not a valid semver (expected form v2.20.0)", cfg.ComposeMinVersion)
	}

	return cfg, nil
}
