package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// CopyStep places a file at a destination with a fixed mode. Content is
// compared by hash, so a locally edited file is restored on the next run.
type CopyStep struct {
	src  string
	dest string
	mode os.FileMode
	id   step.ID
	fs   ports.FileSystem
}

// NewCopyStep creates a new CopyStep. An empty mode defaults to 0644.
func NewCopyStep(copy Copy, fs ports.FileSystem) (*CopyStep, error) {
	mode := os.FileMode(0o644)
	if copy.Mode != "" {
		parsed, err := ParseMode(copy.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	return &CopyStep{
		src:  ports.ExpandPath(copy.Src),
		dest: ports.ExpandPath(copy.Dest),
		mode: mode,
		id:   step.MustNewID("files:copy:" + copy.Dest),
		fs:   fs,
	}, nil
}

// ID returns the step identifier.
func (s *CopyStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *CopyStep) DependsOn() []step.ID {
	return nil
}

// Check compares destination content and mode against the source.
func (s *CopyStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.src) {
		return step.StatusUnknown, fmt.Errorf("source file %s does not exist", s.src)
	}
	if !s.fs.Exists(s.dest) {
		return step.StatusNeedsApply, nil
	}

	srcHash, err := s.fs.FileHash(s.src)
	if err != nil {
		return step.StatusUnknown, err
	}
	destHash, err := s.fs.FileHash(s.dest)
	if err != nil {
		return step.StatusUnknown, err
	}
	if srcHash != destHash {
		return step.StatusNeedsApply, nil
	}

	info, err := s.fs.GetFileInfo(s.dest)
	if err != nil {
		return step.StatusUnknown, err
	}
	if info.Mode.Perm() != s.mode.Perm() {
		return step.StatusNeedsApply, nil
	}

	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *CopyStep) Plan(_ step.RunContext) (step.Diff, error) {
	if s.fs.Exists(s.dest) {
		return step.NewDiff(step.DiffTypeModify, "file", s.dest, "current", "managed copy"), nil
	}
	return step.NewDiff(step.DiffTypeAdd, "file", s.dest, "", s.src), nil
}

// Apply copies the file into place and sets its mode.
func (s *CopyStep) Apply(_ step.RunContext) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.dest), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", s.dest, err)
	}
	if err := s.fs.CopyFile(s.src, s.dest); err != nil {
		return fmt.Errorf("copying %s to %s: %w", s.src, s.dest, err)
	}
	if err := s.fs.Chmod(s.dest, s.mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", s.dest, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *CopyStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Place Managed File",
		fmt.Sprintf("Copies %s to %s with mode %04o, restoring it if the content drifts.", s.src, s.dest, s.mode.Perm()),
	)
}

// ModeStep asserts the permissions of an existing path.
type ModeStep struct {
	path string
	mode os.FileMode
	id   step.ID
	fs   ports.FileSystem
}

// NewModeStep creates a new ModeStep.
func NewModeStep(entry Mode, fs ports.FileSystem) (*ModeStep, error) {
	mode, err := ParseMode(entry.Mode)
	if err != nil {
		return nil, err
	}

	return &ModeStep{
		path: ports.ExpandPath(entry.Path),
		mode: mode,
		id:   step.MustNewID("files:mode:" + entry.Path),
		fs:   fs,
	}, nil
}

// ID returns the step identifier.
func (s *ModeStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ModeStep) DependsOn() []step.ID {
	return nil
}

// Check compares the path's current permissions against the desired mode.
func (s *ModeStep) Check(_ step.RunContext) (step.Status, error) {
	info, err := s.fs.GetFileInfo(s.path)
	if err != nil {
		return step.StatusUnknown, fmt.Errorf("cannot stat %s: %w", s.path, err)
	}
	if info.Mode.Perm() != s.mode.Perm() {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *ModeStep) Plan(_ step.RunContext) (step.Diff, error) {
	old := ""
	if info, err := s.fs.GetFileInfo(s.path); err == nil {
		old = fmt.Sprintf("%04o", info.Mode.Perm())
	}
	return step.NewDiff(step.DiffTypeModify, "mode", s.path, old, fmt.Sprintf("%04o", s.mode.Perm())), nil
}

// Apply sets the path's permissions.
func (s *ModeStep) Apply(_ step.RunContext) error {
	if err := s.fs.Chmod(s.path, s.mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", s.path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ModeStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Set File Permissions",
		fmt.Sprintf("Sets %s to mode %04o.", s.path, s.mode.Perm()),
	)
}

// LineStep ensures a line appears exactly once in a file. Re-running never
// appends a duplicate.
type LineStep struct {
	path   string
	line   string
	sudo   bool
	id     step.ID
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewLineStep creates a new LineStep.
func NewLineStep(entry Line, fs ports.FileSystem, runner ports.CommandRunner) *LineStep {
	return &LineStep{
		path:   ports.ExpandPath(entry.Path),
		line:   entry.Line,
		sudo:   entry.Sudo,
		id:     step.MustNewID("files:line:" + entry.Path),
		fs:     fs,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *LineStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *LineStep) DependsOn() []step.ID {
	return nil
}

// Check determines whether the exact line is already present.
func (s *LineStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.path) {
		return step.StatusNeedsApply, nil
	}

	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		return step.StatusUnknown, err
	}

	for _, existing := range strings.Split(string(content), "\n") {
		if existing == s.line {
			return step.StatusSatisfied, nil
		}
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *LineStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "line", s.path, "", s.line), nil
}

// Apply appends the line. The probe in Check guarantees the line is absent
// when this runs, so the file ends up with exactly one occurrence.
func (s *LineStep) Apply(ctx step.RunContext) error {
	if err := validation.ValidateConfigLine(s.line); err != nil {
		return fmt.Errorf("invalid managed line: %w", err)
	}

	if s.sudo {
		result, err := s.runner.RunInput(ctx.Context(), s.line+"\n", ctx.Sudo(), "tee", "-a", s.path)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("appending to %s failed: %s", s.path, result.Stderr)
		}
		return nil
	}

	var content []byte
	mode := os.FileMode(0o644)
	if s.fs.Exists(s.path) {
		existing, err := s.fs.ReadFile(s.path)
		if err != nil {
			return err
		}
		content = existing
		if info, err := s.fs.GetFileInfo(s.path); err == nil {
			mode = info.Mode.Perm()
		}
	}

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		content = append(content, '\n')
	}
	content = append(content, []byte(s.line+"\n")...)

	return s.fs.WriteFile(s.path, content, mode)
}

// Explain provides a human-readable explanation.
func (s *LineStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Ensure Config Line",
		fmt.Sprintf("Appends %q to %s unless the line is already present.", s.line, s.path),
	)
}
