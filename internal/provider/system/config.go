// Package system provides the system provider for logind behavior, ACPI
// wakeup sources, and the root account lock.
package system

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// Config represents the system section of the configuration.
type Config struct {
	// Logind maps logind.conf keys in the [Login] section to values,
	// e.g. HandleLidSwitch: ignore.
	Logind map[string]string `mapstructure:"logind"`
	// AcpiWakeupDisable lists ACPI devices whose wakeup capability is
	// turned off, e.g. XHC0 for a USB controller that wakes the machine.
	AcpiWakeupDisable []string `mapstructure:"acpi_wakeup_disable"`
	// LockRoot locks the root account's password if it is enabled.
	LockRoot bool `mapstructure:"lock_root"`
}

// ParseConfig parses the system configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid system config: %w", err)
	}

	for key := range cfg.Logind {
		if err := validation.ValidateIdentifier(key); err != nil {
			return nil, fmt.Errorf("logind key: %w", err)
		}
	}
	for _, device := range cfg.AcpiWakeupDisable {
		if err := validation.ValidateIdentifier(device); err != nil {
			return nil, fmt.Errorf("acpi device: %w", err)
		}
	}

	return cfg, nil
}
