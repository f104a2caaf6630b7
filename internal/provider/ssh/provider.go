package ssh

import (
	"path/filepath"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles ssh configuration into executable steps.
type Provider struct {
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewProvider creates a new ssh Provider.
func NewProvider(fs ports.FileSystem, runner ports.CommandRunner) *Provider {
	return &Provider{fs: fs, runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ssh"
}

// Steps transforms ssh configuration into executable steps. Each key
// depends on a directory step for its own parent directory; keys that
// share a directory share the step.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("ssh")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	if len(cfg.Keys) == 0 {
		return nil, nil
	}

	steps := make([]step.Step, 0, 1+2*len(cfg.Keys))
	dirSteps := make(map[string]*DirStep)

	for _, key := range cfg.Keys {
		dir := filepath.Dir(key.Path)
		dirStep, ok := dirSteps[ports.ExpandPath(dir)]
		if !ok {
			dirStep = NewDirStep(dir, p.fs)
			dirSteps[ports.ExpandPath(dir)] = dirStep
			steps = append(steps, dirStep)
		}

		keygen := NewKeygenStep(key, []step.ID{dirStep.ID()}, p.fs, p.runner)
		steps = append(steps, keygen)
		steps = append(steps, NewPermissionsStep(key, []step.ID{keygen.ID()}, p.fs))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
