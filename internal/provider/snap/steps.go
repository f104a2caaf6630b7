package snap

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// PackageStep represents a snap package installation step.
type PackageStep struct {
	pkg    Package
	id     step.ID
	runner ports.CommandRunner
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(pkg Package, runner ports.CommandRunner) *PackageStep {
	id := step.MustNewID("snap:package:" + pkg.Name)
	return &PackageStep{
		pkg:    pkg,
		id:     id,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []step.ID {
	return nil
}

// Check determines if the snap is already installed.
func (s *PackageStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "snap", "list", s.pkg.Name)
	if err != nil {
		return step.StatusUnknown, err
	}

	// snap list exits non-zero when the snap is not installed
	if result.Success() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackageStep) Plan(_ step.RunContext) (step.Diff, error) {
	channel := "latest/stable"
	if s.pkg.Channel != "" {
		channel = s.pkg.Channel
	}
	return step.NewDiff(step.DiffTypeAdd, "snap", s.pkg.Name, "", channel), nil
}

// Apply executes the snap installation.
func (s *PackageStep) Apply(ctx step.RunContext) error {
	// Validate snap name before execution to prevent command injection
	if err := validation.ValidateSnapName(s.pkg.Name); err != nil {
		return fmt.Errorf("invalid snap name: %w", err)
	}

	args := []string{"snap", "install", s.pkg.Name}
	if s.pkg.Classic {
		args = append(args, "--classic")
	}
	if s.pkg.Channel != "" {
		args = append(args, "--channel", s.pkg.Channel)
	}

	result, err := s.runner.Run(ctx.Context(), ctx.Sudo(), args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("snap install %s failed: %s", s.pkg.Name, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() step.Explanation {
	desc := fmt.Sprintf("Installs the %s snap.", s.pkg.Name)
	if s.pkg.Classic {
		desc += " Uses classic confinement, giving the snap full system access."
	}
	return step.NewExplanation("Install Snap Package", desc)
}
