package docker

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles docker configuration into executable steps.
type Provider struct {
	runner      ports.CommandRunner
	fs          ports.FileSystem
	username    string
	downloadCmd string
}

// NewProvider creates a new docker Provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem, username, downloadCmd string) *Provider {
	return &Provider{runner: runner, fs: fs, username: username, downloadCmd: downloadCmd}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "docker"
}

// Steps transforms docker configuration into executable steps. Every other
// docker step depends on the engine being installed first.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("docker")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]step.Step, 0, 5)

	var engineDeps []step.ID
	if cfg.Engine {
		engineStep := NewEngineStep(p.downloadCmd, p.runner)
		steps = append(steps, engineStep)
		engineDeps = []step.ID{engineStep.ID()}
	}

	if len(cfg.Daemon) > 0 {
		steps = append(steps, NewDaemonConfigStep(cfg.Daemon, engineDeps, p.fs, p.runner))
	}
	if cfg.Group {
		steps = append(steps, NewGroupStep(p.username, engineDeps, p.runner))
	}
	if cfg.ComposeMinVersion != "" {
		steps = append(steps, NewComposeStep(cfg.ComposeMinVersion, engineDeps, p.runner))
	}
	if cfg.NvidiaToolkit {
		steps = append(steps, NewNvidiaToolkitStep(engineDeps, p.runner))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
