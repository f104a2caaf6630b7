package shell

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles shell configuration into executable steps.
type Provider struct {
	fs       ports.FileSystem
	runner   ports.CommandRunner
	username string
}

// NewProvider creates a new shell Provider for the given user.
func NewProvider(fs ports.FileSystem, runner ports.CommandRunner, username string) *Provider {
	return &Provider{fs: fs, runner: runner, username: username}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "shell"
}

// Steps transforms shell configuration into executable steps.
func (p *Provider) Steps(src step.Source) ([]step.Step, error) {
	rawConfig := src.Section("shell")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]step.Step, 0, 3)

	if len(cfg.Env) > 0 {
		steps = append(steps, NewEnvBlockStep(cfg.ConfigFile, cfg.Env, p.fs))
	}
	if len(cfg.Aliases) > 0 {
		steps = append(steps, NewAliasBlockStep(cfg.ConfigFile, cfg.Aliases, p.fs))
	}
	if cfg.Default != "" {
		steps = append(steps, NewDefaultShellStep(cfg.Default, p.username, p.runner))
	}

	return steps, nil
}

// Ensure Provider implements step.Provider.
var _ step.Provider = (*Provider)(nil)
