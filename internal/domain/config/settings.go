package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// settingsRelPath is the settings location under the XDG config directory.
const settingsRelPath = "groundwork/settings.toml"

// Settings tunes how groundwork itself behaves. Everything has a working
// default; the file is optional. This replaces the shell script habit of
// implicit environment-variable configuration.
type Settings struct {
	// AptIndexMaxAge is how old the apt index may be before "apt:update"
	// considers a refresh necessary, in time.ParseDuration syntax.
	// Default: "24h".
	AptIndexMaxAge string `toml:"apt_index_max_age"`

	// UpdateRemote and UpdateBranch name the upstream the self-update
	// guard fast-forwards from. Defaults: "origin", "main".
	UpdateRemote string `toml:"update_remote"`
	UpdateBranch string `toml:"update_branch"`

	// SudoCommand is the privilege-elevation command used for mutations
	// that need root. Default: "sudo".
	SudoCommand string `toml:"sudo_command"`

	// DownloadCommand fetches .deb installers. Default: "curl".
	DownloadCommand string `toml:"download_command"`

	// RebootRequiredPath is probed for the pending-reboot warning.
	// Default: "/var/run/reboot-required".
	RebootRequiredPath string `toml:"reboot_required_path"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		AptIndexMaxAge:     "24h",
		UpdateRemote:       "origin",
		UpdateBranch:       "main",
		SudoCommand:        "sudo",
		DownloadCommand:    "curl",
		RebootRequiredPath: "/var/run/reboot-required",
	}
}

// IndexMaxAge returns AptIndexMaxAge as a duration, falling back to the
// default when the configured value does not parse.
func (s Settings) IndexMaxAge() time.Duration {
	d, err := time.ParseDuration(s.AptIndexMaxAge)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SettingsPath returns where the settings file lives.
func SettingsPath() string {
	return filepath.Join(xdg.ConfigHome, settingsRelPath)
}

// LoadSettings reads the settings file, falling back to defaults when the
// file is absent. Unset fields keep their defaults.
func LoadSettings() (Settings, error) {
	return loadSettingsFrom(SettingsPath())
}

func loadSettingsFrom(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), NewSettingsParseError(path, err)
	}

	settings.fillDefaults()
	return settings, nil
}

// fillDefaults restores defaults for fields the file left empty.
func (s *Settings) fillDefaults() {
	defaults := DefaultSettings()
	if s.AptIndexMaxAge == "" {
		s.AptIndexMaxAge = defaults.AptIndexMaxAge
	}
	if s.UpdateRemote == "" {
		s.UpdateRemote = defaults.UpdateRemote
	}
	if s.UpdateBranch == "" {
		s.UpdateBranch = defaults.UpdateBranch
	}
	if s.SudoCommand == "" {
		s.SudoCommand = defaults.SudoCommand
	}
	if s.DownloadCommand == "" {
		s.DownloadCommand = defaults.DownloadCommand
	}
	if s.RebootRequiredPath == "" {
		s.RebootRequiredPath = defaults.RebootRequiredPath
	}
}
