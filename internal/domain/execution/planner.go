package execution

import (
	"context"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Planner probes every step in a graph and produces an execution Plan.
type Planner struct {
	sudo string
}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// WithSudo returns a Planner whose probes elevate privileges with the
// given command instead of sudo.
func (p *Planner) WithSudo(cmd string) *Planner {
	return &Planner{sudo: cmd}
}

// Plan checks each step's desired-state predicate and returns the entries
// in topological order. A failing probe does not abort planning: the entry
// is recorded with StatusUnknown so the report can surface it.
func (p *Planner) Plan(ctx context.Context, graph *step.Graph) (*Plan, error) {
	sorted, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}

	plan := NewPlan()
	runCtx := step.NewRunContext(ctx).WithSudo(p.sudo)

	for _, s := range sorted {
		plan.Add(p.planStep(s, runCtx))
	}

	return plan, nil
}

// planStep probes a single step.
func (p *Planner) planStep(s step.Step, ctx step.RunContext) PlanEntry {
	status, err := s.Check(ctx)
	if err != nil {
		return NewPlanEntry(s, step.StatusUnknown, step.Diff{}).
			WithCheckError(step.NewCheckFailedError(s.ID().String(), err))
	}

	var diff step.Diff
	if status == step.StatusNeedsApply {
		if d, err := s.Plan(ctx); err == nil {
			diff = d
		}
	}

	return NewPlanEntry(s, status, diff)
}
