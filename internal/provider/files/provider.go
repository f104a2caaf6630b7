package files

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles files configuration into executable steps.
type Provider struct {
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewProvider creates a new files Provider.
func NewProvider(fs ports.FileSystem, runner ports.CommandRunner) *Provider {
	return &Provider{fs: fs, runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "files"
}

// Steps transforms files configuration into executable steps.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("files")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]step.Step, 0, len(cfg.Copies)+len(cfg.Modes)+len(cfg.Lines))

	for _, copy := range cfg.Copies {
		copyStep, err := NewCopyStep(copy, p.fs)
		if err != nil {
			return nil, err
		}
		steps = append(steps, copyStep)
	}

	for _, mode := range cfg.Modes {
		modeStep, err := NewModeStep(mode, p.fs)
		if err != nil {
			return nil, err
		}
		steps = append(steps, modeStep)
	}

	for _, line := range cfg.Lines {
		steps = append(steps, NewLineStep(line, p.fs, p.runner))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
