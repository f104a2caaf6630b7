package deb

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles deb installer configuration into executable steps.
type Provider struct {
	runner      ports.CommandRunner
	fs          ports.FileSystem
	downloadCmd string
}

// NewProvider creates a new deb Provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem, downloadCmd string) *Provider {
	return &Provider{runner: runner, fs: fs, downloadCmd: downloadCmd}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "deb"
}

// Steps transforms deb configuration into executable steps.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("deb")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]step.Step, 0, len(cfg.Installers))
	for _, installer := range cfg.Installers {
		steps = append(steps, NewInstallerStep(installer, p.downloadCmd, p.runner, p.fs))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
