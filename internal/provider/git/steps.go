package git

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// SettingStep pins one key in the global git configuration. The file is
// edited through the ini structure, so comments and unmanaged keys survive.
type SettingStep struct {
	configPath string
	section    string
	name       string
	value      string
	id         step.ID
	fs         ports.FileSystem
}

// NewSettingStep creates a new SettingStep for a dotted key like
// "init.defaultBranch".
func NewSettingStep(configFile, key, value string, fs ports.FileSystem) (*SettingStep, error) {
	section, name, err := SplitKey(key)
	if err != nil {
		return nil, err
	}

	return &SettingStep{
		configPath: ports.ExpandPath(configFile),
		section:    section,
		name:       name,
		value:      value,
		id:         step.MustNewID("git:setting:" + key),
		fs:         fs,
	}, nil
}

// ID returns the step identifier.
func (s *SettingStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *SettingStep) DependsOn() []step.ID {
	return nil
}

// Check compares the configured value against the file.
func (s *SettingStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.configPath) {
		return step.StatusNeedsApply, nil
	}

	file, err := s.load()
	if err != nil {
		return step.StatusUnknown, err
	}

	if file.Section(s.section).Key(s.name).String() == s.value {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *SettingStep) Plan(_ step.RunContext) (step.Diff, error) {
	old := ""
	if s.fs.Exists(s.configPath) {
		if file, err := s.load(); err == nil {
			old = file.Section(s.section).Key(s.name).String()
		}
	}
	key := s.section + "." + s.name
	if old == "" {
		return step.NewDiff(step.DiffTypeAdd, "git-setting", key, "", s.value), nil
	}
	return step.NewDiff(step.DiffTypeModify, "git-setting", key, old, s.value), nil
}

// Apply writes the setting, creating the file if needed.
func (s *SettingStep) Apply(_ step.RunContext) error {
	if err := validation.ValidateGitConfigValue(s.value); err != nil {
		return fmt.Errorf("git setting %s.%s: %w", s.section, s.name, err)
	}

	file := ini.Empty()
	if s.fs.Exists(s.configPath) {
		loaded, err := s.load()
		if err != nil {
			return err
		}
		file = loaded
	}

	file.Section(s.section).Key(s.name).SetValue(s.value)

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("serializing git config: %w", err)
	}

	return s.fs.WriteFile(s.configPath, buf.Bytes(), 0o644)
}

// Explain provides a human-readable explanation.
func (s *SettingStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Set Git Config",
		fmt.Sprintf("Sets %s.%s to %q in %s.", s.section, s.name, s.value, s.configPath),
	)
}

func (s *SettingStep) load() (*ini.File, error) {
	content, err := s.fs.ReadFile(s.configPath)
	if err != nil {
		return nil, err
	}
	file, err := ini.Load(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.configPath, err)
	}
	return file, nil
}
