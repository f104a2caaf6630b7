package execution

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Executor runs the steps of a Plan in order and aggregates a Report.
//
// Failure semantics: a failed step marks itself Failed and causes every
// step that depends on it (directly or transitively) to be Skipped, but
// independent steps still run. The caller decides whether a failed report
// is fatal; the executor never terminates the process.
type Executor struct {
	dryRun bool
	sudo   string
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that reports what would happen without
// applying anything.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	clone := *e
	clone.dryRun = dryRun
	return &clone
}

// WithSudo returns an Executor whose steps elevate privileges with the
// given command instead of sudo.
func (e *Executor) WithSudo(cmd string) *Executor {
	clone := *e
	clone.sudo = cmd
	return &clone
}

// Execute runs all plan entries in order and returns the aggregated report.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *Report {
	report := NewReport()
	defer report.Finish()

	failed := make(map[string]bool)
	runCtx := step.NewRunContext(ctx).WithDryRun(e.dryRun).WithSudo(e.sudo)

	for _, entry := range plan.Entries() {
		select {
		case <-ctx.Done():
			report.Add(NewStepResult(entry.Step().ID(), step.StatusSkipped, ctx.Err()))
			continue
		default:
		}

		result := e.executeEntry(entry, runCtx, failed)
		report.Add(result)

		// Skipped-because-of-a-failure poisons dependents the same way
		// the failure itself does.
		if result.Status() == step.StatusFailed || result.Status() == step.StatusSkipped {
			failed[entry.Step().ID().String()] = true
		}
	}

	return report
}

// executeEntry executes a single plan entry.
func (e *Executor) executeEntry(entry PlanEntry, ctx step.RunContext, failed map[string]bool) StepResult {
	s := entry.Step()
	stepID := s.ID()

	// A step whose dependency failed is skipped, not attempted.
	for _, depID := range s.DependsOn() {
		if failed[depID.String()] {
			return NewStepResult(stepID, step.StatusSkipped, nil)
		}
	}

	// A probe can fail because a dependency was not in place when the plan
	// was built (a tool probed before the step installing it ran). Now that
	// every dependency has succeeded, probe again before deciding the step
	// failed. Dry runs mutate nothing, so a fresh probe cannot come out
	// differently there.
	if entry.Status() == step.StatusUnknown {
		if ctx.DryRun() {
			return NewStepResult(stepID, step.StatusFailed, entry.CheckError())
		}
		fresh, err := e.recheckEntry(entry, ctx)
		if err != nil {
			return NewStepResult(stepID, step.StatusFailed, err)
		}
		entry = fresh
	}

	// Desired state already holds: no mutation, report satisfied.
	if entry.Status() == step.StatusSatisfied {
		return NewStepResult(stepID, step.StatusSatisfied, nil)
	}

	// Dry run: report the probed state and planned diff untouched.
	if ctx.DryRun() {
		return NewStepResult(stepID, entry.Status(), nil).WithDiff(entry.Diff())
	}

	start := time.Now()
	err := s.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		applyErr := step.NewApplyFailedError(stepID.String(), err)
		return NewStepResult(stepID, step.StatusFailed, applyErr).WithDuration(duration)
	}

	return NewStepResult(stepID, step.StatusApplied, nil).
		WithDuration(duration).
		WithDiff(entry.Diff())
}

// recheckEntry re-runs a step's probe after its dependencies have executed
// and rebuilds the plan entry from the fresh status. A probe that still
// cannot determine the state returns the error recorded at plan time.
func (e *Executor) recheckEntry(entry PlanEntry, ctx step.RunContext) (PlanEntry, error) {
	s := entry.Step()

	status, err := s.Check(ctx)
	if err != nil {
		return PlanEntry{}, step.NewCheckFailedError(s.ID().String(), err)
	}
	if status == step.StatusUnknown {
		checkErr := entry.CheckError()
		if checkErr == nil {
			checkErr = step.NewCheckFailedError(s.ID().String(), errors.New("state could not be determined"))
		}
		return PlanEntry{}, checkErr
	}

	var diff step.Diff
	if status == step.StatusNeedsApply {
		if d, err := s.Plan(ctx); err == nil {
			diff = d
		}
	}

	return NewPlanEntry(s, status, diff), nil
}
