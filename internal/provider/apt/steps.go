package apt

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// aptListsDir is the package index directory whose modification time tells
// when apt-get update last ran.
const aptListsDir = "/var/lib/apt/lists"

// UpdateStep refreshes the apt package index when the on-disk index is
// older than maxAge.
type UpdateStep struct {
	id        step.ID
	dependsOn []step.ID
	maxAge    time.Duration
	runner    ports.CommandRunner
	fs        ports.FileSystem
}

// NewUpdateStep creates a new UpdateStep. The step runs after the given
// dependencies, so PPAs added in the same run are indexed by the refresh.
func NewUpdateStep(maxAge time.Duration, dependsOn []step.ID, runner ports.CommandRunner, fs ports.FileSystem) *UpdateStep {
	return &UpdateStep{
		id:        step.MustNewID("apt:update"),
		dependsOn: dependsOn,
		maxAge:    maxAge,
		runner:    runner,
		fs:        fs,
	}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UpdateStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check determines if the package index is fresh enough.
func (s *UpdateStep) Check(_ step.RunContext) (step.Status, error) {
	info, err := s.fs.GetFileInfo(aptListsDir)
	if err != nil {
		// No index directory means apt-get update never ran.
		return step.StatusNeedsApply, nil
	}
	if time.Since(info.ModTime) > s.maxAge {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *UpdateStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "index", "apt", "stale", "refreshed"), nil
}

// Apply refreshes the package index.
func (s *UpdateStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UpdateStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Refresh APT Index",
		fmt.Sprintf("Runs apt-get update when the package index is older than %s, so installs resolve current package versions.", s.maxAge),
	)
}

// PPAStep represents an apt PPA addition step.
type PPAStep struct {
	ppa    string
	id     step.ID
	runner ports.CommandRunner
}

// NewPPAStep creates a new PPAStep.
func NewPPAStep(ppa string, runner ports.CommandRunner) *PPAStep {
	id := step.MustNewID("apt:ppa:" + strings.TrimPrefix(ppa, "ppa:"))
	return &PPAStep{
		ppa:    ppa,
		id:     id,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PPAStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PPAStep) DependsOn() []step.ID {
	return nil
}

// Check determines if the PPA is already added.
func (s *PPAStep) Check(ctx step.RunContext) (step.Status, error) {
	// PPA source lists live in /etc/apt/sources.list.d/ with generated
	// names, so probe the apt policy output instead.
	result, err := s.runner.Run(ctx.Context(), "apt-cache", "policy")
	if err != nil {
		return step.StatusUnknown, err
	}

	ppaURL := strings.TrimPrefix(s.ppa, "ppa:")
	if strings.Contains(result.Stdout, ppaURL) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PPAStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "ppa", s.ppa, "", s.ppa), nil
}

// Apply executes the PPA addition.
func (s *PPAStep) Apply(ctx step.RunContext) error {
	// Validate PPA name before execution to prevent command injection
	if err := validation.ValidatePPA(s.ppa); err != nil {
		return fmt.Errorf("invalid PPA: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "add-apt-repository", "-y", s.ppa)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("add-apt-repository %s failed: %s", s.ppa, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PPAStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Add APT PPA",
		fmt.Sprintf("Adds the %s Personal Package Archive to apt sources, enabling installation of packages from this repository.", s.ppa),
	)
}

// PackageStep represents an apt package installation step.
type PackageStep struct {
	pkg       Package
	id        step.ID
	dependsOn []step.ID
	runner    ports.CommandRunner
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(pkg Package, dependsOn []step.ID, runner ports.CommandRunner) *PackageStep {
	id := step.MustNewID("apt:package:" + pkg.Name)
	return &PackageStep{
		pkg:       pkg,
		id:        id,
		dependsOn: dependsOn,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []step.ID {
	return s.dependsOn
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${Package}\t${Version}\t${db:Status-Status}\n", s.pkg.Name)
	if err != nil {
		return step.StatusUnknown, err
	}

	// dpkg-query returns exit code 1 if package not found
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}

	if strings.Contains(result.Stdout, "installed") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackageStep) Plan(_ step.RunContext) (step.Diff, error) {
	version := "latest"
	if s.pkg.Version != "" {
		version = s.pkg.Version
	}
	return step.NewDiff(step.DiffTypeAdd, "package", s.pkg.Name, "", version), nil
}

// Apply executes the package installation.
func (s *PackageStep) Apply(ctx step.RunContext) error {
	// Validate package name before execution to prevent command injection
	if err := validation.ValidatePackageName(s.pkg.Name); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	pkgSpec := s.pkg.Name
	if s.pkg.Version != "" && s.pkg.Version != "latest" {
		// Also validate version string
		if err := validation.ValidatePackageName(s.pkg.Version); err != nil {
			return fmt.Errorf("invalid package version: %w", err)
		}
		pkgSpec = s.pkg.FullName()
	}

	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), "apt-get", "install", "-y", pkgSpec)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", pkgSpec, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() step.Explanation {
	desc := fmt.Sprintf("Installs the %s package via apt.", s.pkg.Name)
	if s.pkg.Version != "" && s.pkg.Version != "latest" {
		desc += fmt.Sprintf(" Version: %s", s.pkg.Version)
	}
	return step.NewExplanation("Install APT Package", desc)
}
