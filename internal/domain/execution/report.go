package execution

import (
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/google/uuid"
)

// Report aggregates the results of one run. Failures do not abort unrelated
// steps, so the report is the single source of truth for what happened.
type Report struct {
	runID    string
	started  time.Time
	finished time.Time
	results  []StepResult
}

// NewReport creates an empty Report with a fresh run ID.
func NewReport() *Report {
	return &Report{
		runID:   uuid.NewString(),
		started: time.Now(),
		results: make([]StepResult, 0),
	}
}

// RunID returns the unique identifier of this run.
func (r *Report) RunID() string {
	return r.runID
}

// Add appends a step result.
func (r *Report) Add(result StepResult) {
	r.results = append(r.results, result)
}

// Finish records the end time of the run.
func (r *Report) Finish() {
	r.finished = time.Now()
}

// Duration returns the wall-clock duration of the run.
func (r *Report) Duration() time.Duration {
	if r.finished.IsZero() {
		return time.Since(r.started)
	}
	return r.finished.Sub(r.started)
}

// Results returns all step results in execution order.
func (r *Report) Results() []StepResult {
	return r.results
}

// ReportSummary holds aggregate counts for a run.
type ReportSummary struct {
	Total     int
	Satisfied int
	Applied   int
	Failed    int
	Skipped   int
}

// Summary returns aggregate counts.
func (r *Report) Summary() ReportSummary {
	summary := ReportSummary{Total: len(r.results)}
	for i := range r.results {
		switch r.results[i].Status() {
		case step.StatusSatisfied:
			summary.Satisfied++
		case step.StatusApplied:
			summary.Applied++
		case step.StatusFailed:
			summary.Failed++
		case step.StatusSkipped:
			summary.Skipped++
		case step.StatusNeedsApply, step.StatusUnknown:
			// Dry runs leave entries in their probed state; count them
			// as neither applied nor failed.
		}
	}
	return summary
}

// Failed returns true if any step failed.
func (r *Report) Failed() bool {
	for i := range r.results {
		if r.results[i].Status() == step.StatusFailed {
			return true
		}
	}
	return false
}
