package step

// Status represents the observed or final state of a step.
type Status string

const (
	// StatusSatisfied indicates the desired state already holds.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the state could not be determined.
	StatusUnknown Status = "unknown"
	// StatusApplied indicates the step mutated the system this run.
	StatusApplied Status = "applied"
	// StatusFailed indicates the step failed during check or apply.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the step was not run (a dependency failed).
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// NeedsAction returns true if this status requires execution or attention.
func (s Status) NeedsAction() bool {
	switch s {
	case StatusNeedsApply, StatusUnknown, StatusFailed:
		return true
	case StatusSatisfied, StatusApplied, StatusSkipped:
		return false
	}
	return false
}

// IsTerminal returns true if this status represents a final outcome.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSatisfied, StatusApplied, StatusFailed, StatusSkipped:
		return true
	case StatusNeedsApply, StatusUnknown:
		return false
	}
	return false
}
