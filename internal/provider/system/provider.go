package system

import (
	"sort"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles system configuration into executable steps.
type Provider struct {
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewProvider creates a new system Provider.
func NewProvider(fs ports.FileSystem, runner ports.CommandRunner) *Provider {
	return &Provider{fs: fs, runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "system"
}

// Steps transforms system configuration into executable steps.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("system")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cfg.Logind))
	for key := range cfg.Logind {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	steps := make([]step.Step, 0, len(keys)+len(cfg.AcpiWakeupDisable)+1)

	for _, key := range keys {
		steps = append(steps, NewLogindStep(key, cfg.Logind[key], p.fs, p.runner))
	}
	for _, device := range cfg.AcpiWakeupDisable {
		steps = append(steps, NewAcpiWakeupStep(device, p.fs, p.runner))
	}
	if cfg.LockRoot {
		steps = append(steps, NewRootLockStep(p.runner))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
