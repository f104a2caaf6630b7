package deb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// InstallerStep downloads a vendor .deb and installs it with apt. The
// download is skipped entirely once the package is registered with dpkg.
type InstallerStep struct {
	installer   Installer
	id          step.ID
	downloadCmd string
	runner      ports.CommandRunner
	fs          ports.FileSystem
}

// NewInstallerStep creates a new InstallerStep. downloadCmd is the curl
// binary used for the download.
func NewInstallerStep(installer Installer, downloadCmd string, runner ports.CommandRunner, fs ports.FileSystem) *InstallerStep {
	id := step.MustNewID("deb:installer:" + installer.Name)
	return &InstallerStep{
		installer:   installer,
		id:          id,
		downloadCmd: downloadCmd,
		runner:      runner,
		fs:          fs,
	}
}

// ID returns the step identifier.
func (s *InstallerStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *InstallerStep) DependsOn() []step.ID {
	return nil
}

// Check determines if the package is already registered with dpkg.
func (s *InstallerStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", s.installer.PackageName())
	if err != nil {
		return step.StatusUnknown, err
	}

	if result.Success() && strings.Contains(result.Stdout, "installed") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *InstallerStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "installer", s.installer.Name, "", s.installer.URL), nil
}

// Apply downloads the .deb to a temp path and installs it. apt resolves
// the file's dependencies the same way it would for a repository package.
func (s *InstallerStep) Apply(ctx step.RunContext) error {
	if err := validation.ValidateURL(s.installer.URL); err != nil {
		return fmt.Errorf("invalid installer URL: %w", err)
	}
	if err := validation.ValidatePackageName(s.installer.Name); err != nil {
		return fmt.Errorf("invalid installer name: %w", err)
	}

	dest := s.tempPath()

	result, err := s.runner.Run(ctx.Context(), s.downloadCmd, "-fsSL", "-o", dest, s.installer.URL)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("download of %s failed: %s", s.installer.URL, result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), ctx.Sudo(), "apt-get", "install", "-y", dest)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", dest, result.Stderr)
	}

	// Best effort: the temp file is harmless if removal fails.
	_ = s.fs.Remove(dest)

	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallerStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install Vendor Package",
		fmt.Sprintf("Downloads %s from %s and installs it via apt, pulling in its dependencies.", s.installer.Name, s.installer.URL),
	)
}

func (s *InstallerStep) tempPath() string {
	return filepath.Join("/tmp", s.installer.Name+".deb")
}
