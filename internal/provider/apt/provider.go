package apt

import (
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles apt configuration into executable steps.
type Provider struct {
	runner      ports.CommandRunner
	fs          ports.FileSystem
	indexMaxAge time.Duration
}

// NewProvider creates a new apt Provider. indexMaxAge bounds how old the
// package index may be before the update step refreshes it.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem, indexMaxAge time.Duration) *Provider {
	return &Provider{runner: runner, fs: fs, indexMaxAge: indexMaxAge}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "apt"
}

// Steps transforms apt configuration into executable steps. PPAs are added
// first, the index refresh waits for them, and package installs wait for
// the refresh.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("apt")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]step.Step, 0, len(cfg.PPAs)+len(cfg.Packages)+1)

	ppaIDs := make([]step.ID, 0, len(cfg.PPAs))
	for _, ppa := range cfg.PPAs {
		ppaStep := NewPPAStep(ppa, p.runner)
		ppaIDs = append(ppaIDs, ppaStep.ID())
		steps = append(steps, ppaStep)
	}

	var pkgDeps []step.ID
	if cfg.Update {
		updateStep := NewUpdateStep(p.indexMaxAge, ppaIDs, p.runner, p.fs)
		steps = append(steps, updateStep)
		pkgDeps = []step.ID{updateStep.ID()}
	} else {
		// Without a refresh step, installs still wait for new sources.
		pkgDeps = ppaIDs
	}

	for _, pkg := range cfg.Packages {
		steps = append(steps, NewPackageStep(pkg, pkgDeps, p.runner))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
