package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// BlockStep maintains one managed block inside a shell rc file. The block
// is rewritten in place when its generated content drifts, so removing an
// entry from the configuration also removes it from the file.
type BlockStep struct {
	configPath string
	section    string
	content    string
	id         step.ID
	fs         ports.FileSystem
}

// NewEnvBlockStep creates a BlockStep for managed environment exports.
func NewEnvBlockStep(configFile string, env map[string]string, fs ports.FileSystem) *BlockStep {
	return &BlockStep{
		configPath: ports.ExpandPath(configFile),
		section:    "env",
		content:    GenerateEnvBlock(env),
		id:         step.MustNewID("shell:env"),
		fs:         fs,
	}
}

// NewAliasBlockStep creates a BlockStep for managed aliases.
func NewAliasBlockStep(configFile string, aliases map[string]string, fs ports.FileSystem) *BlockStep {
	return &BlockStep{
		configPath: ports.ExpandPath(configFile),
		section:    "aliases",
		content:    GenerateAliasBlock(aliases),
		id:         step.MustNewID("shell:aliases"),
		fs:         fs,
	}
}

// ID returns the step identifier.
func (s *BlockStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *BlockStep) DependsOn() []step.ID {
	return nil
}

// Check compares the managed block in the rc file against the desired content.
func (s *BlockStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.configPath) {
		return step.StatusNeedsApply, nil
	}

	content, err := s.fs.ReadFile(s.configPath)
	if err != nil {
		return step.StatusUnknown, err
	}

	if ReadManagedBlock(string(content), s.section) == s.content {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *BlockStep) Plan(_ step.RunContext) (step.Diff, error) {
	if s.fs.Exists(s.configPath) {
		return step.NewDiff(step.DiffTypeModify, "block", s.section, "current", "managed"), nil
	}
	return step.NewDiff(step.DiffTypeAdd, "block", s.section, "", "managed"), nil
}

// Apply rewrites the managed block, preserving everything outside it.
func (s *BlockStep) Apply(_ step.RunContext) error {
	var existing string
	mode := os.FileMode(0o644)
	if s.fs.Exists(s.configPath) {
		content, err := s.fs.ReadFile(s.configPath)
		if err != nil {
			return err
		}
		existing = string(content)
		if info, err := s.fs.GetFileInfo(s.configPath); err == nil {
			mode = info.Mode.Perm()
		}
	}

	updated := WriteManagedBlock(existing, s.section, s.content)
	return s.fs.WriteFile(s.configPath, []byte(updated), mode)
}

// Explain provides a human-readable explanation.
func (s *BlockStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Maintain Shell Block",
		fmt.Sprintf("Keeps the managed %s block in %s in sync with the configuration.", s.section, s.configPath),
	)
}

// DefaultShellStep changes the user's login shell.
type DefaultShellStep struct {
	shell    string
	username string
	id       step.ID
	runner   ports.CommandRunner
}

// NewDefaultShellStep creates a new DefaultShellStep.
func NewDefaultShellStep(shell, username string, runner ports.CommandRunner) *DefaultShellStep {
	return &DefaultShellStep{
		shell:    shell,
		username: username,
		id:       step.MustNewID("shell:default"),
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *DefaultShellStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DefaultShellStep) DependsOn() []step.ID {
	return nil
}

// Check reads the user's passwd entry and compares the login shell.
func (s *DefaultShellStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "getent", "passwd", s.username)
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		return step.StatusUnknown, fmt.Errorf("no passwd entry for %s", s.username)
	}

	// Login shell is the last colon-separated field.
	fields := strings.Split(strings.TrimSpace(result.Stdout), ":")
	current := fields[len(fields)-1]
	if current == s.shell {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *DefaultShellStep) Plan(ctx step.RunContext) (step.Diff, error) {
	old := ""
	if result, err := s.runner.Run(ctx.Context(), "getent", "passwd", s.username); err == nil && result.Success() {
		fields := strings.Split(strings.TrimSpace(result.Stdout), ":")
		old = fields[len(fields)-1]
	}
	return step.NewDiff(step.DiffTypeModify, "login-shell", s.username, old, s.shell), nil
}

// Apply changes the login shell via chsh.
func (s *DefaultShellStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "chsh", "-s", s.shell, s.username)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("chsh -s %s failed: %s", s.shell, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *DefaultShellStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Set Login Shell",
		fmt.Sprintf("Changes the login shell for %s to %s. Takes effect on next login.", s.username, s.shell),
	)
}
