// Package step defines the idempotent unit of work groundwork is built
// around: probe the live system state, mutate only when the desired state
// does not hold, and describe the change either way.
package step

// Step is an idempotent unit of execution. Applying a step whose desired
// state already holds must be a no-op, so a run can be repeated safely
// after a partial failure.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []ID

	// Check evaluates the desired-state predicate against live system state.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply if a
	// mutation is required.
	Check(ctx RunContext) (Status, error)

	// Plan returns the diff describing what Apply would change.
	Plan(ctx RunContext) (Diff, error)

	// Apply performs the mutation. It must be idempotent.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain() Explanation
}

// Explanation describes a step for humans.
type Explanation struct {
	summary string
	detail  string
}

// NewExplanation creates a new Explanation.
func NewExplanation(summary, detail string) Explanation {
	return Explanation{summary: summary, detail: detail}
}

// Summary returns a brief description of what the step does.
func (e Explanation) Summary() string {
	return e.summary
}

// Detail returns a longer explanation with context.
func (e Explanation) Detail() string {
	return e.detail
}

// IsEmpty returns true if this explanation has no content.
func (e Explanation) IsEmpty() bool {
	return e.summary == "" && e.detail == ""
}
