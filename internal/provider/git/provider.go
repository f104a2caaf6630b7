package git

import (
	"sort"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles git configuration into executable steps.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new git Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "git"
}

// Steps transforms git configuration into executable steps. Settings are
// emitted in sorted key order so runs are deterministic.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("git")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cfg.Settings))
	for key := range cfg.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	steps := make([]step.Step, 0, len(keys))
	for _, key := range keys {
		settingStep, err := NewSettingStep(cfg.ConfigFile, key, cfg.Settings[key], p.fs)
		if err != nil {
			return nil, err
		}
		steps = append(steps, settingStep)
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
