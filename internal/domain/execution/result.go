// Package execution orchestrates planning and applying steps.
package execution

import (
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   step.ID
	status   step.Status
	err      error
	duration time.Duration
	diff     step.Diff
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID step.ID, status step.Status, err error) StepResult {
	return StepResult{stepID: stepID, status: status, err: err}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() step.ID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() step.Status {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Diff returns the diff that was applied (if any).
func (r StepResult) Diff() step.Diff {
	return r.diff
}

// Success returns true if the step ended satisfied or applied.
func (r StepResult) Success() bool {
	return r.status == step.StatusSatisfied || r.status == step.StatusApplied
}

// Skipped returns true if the step was skipped.
func (r StepResult) Skipped() bool {
	return r.status == step.StatusSkipped
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithDiff returns a new StepResult with diff set.
func (r StepResult) WithDiff(d step.Diff) StepResult {
	r.diff = d
	return r
}
