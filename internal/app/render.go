package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/groundwork/internal/domain/execution"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Renderer writes plans and run reports for terminal consumption.
type Renderer struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}),
		warning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}),
		failure: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}),
	}
}

// PrintPlan writes the plan: one line per step with its probed state,
// followed by a summary.
func (r *Renderer) PrintPlan(plan *execution.Plan) {
	fmt.Fprintln(r.out, r.heading.Render("Plan"))

	for _, entry := range plan.Entries() {
		r.printPlanEntry(entry)
	}

	summary := plan.Summary()
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d steps: %d to apply, %d already satisfied",
		summary.Total, summary.NeedsApply, summary.Satisfied)
	if summary.Unknown > 0 {
		fmt.Fprintf(r.out, ", %s", r.failure.Render(fmt.Sprintf("%d unknown", summary.Unknown)))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) printPlanEntry(entry execution.PlanEntry) {
	id := entry.Step().ID().String()

	switch entry.Status() {
	case step.StatusSatisfied:
		fmt.Fprintf(r.out, "  %s %s %s\n", r.success.Render("ok"), id, r.muted.Render(entry.Step().Explain().Summary()))
	case step.StatusNeedsApply:
		line := entry.Step().Explain().Summary()
		if !entry.Diff().IsEmpty() {
			line = entry.Diff().Summary()
		}
		fmt.Fprintf(r.out, "  %s %s %s\n", r.warning.Render("->"), id, line)
	case step.StatusUnknown:
		detail := ""
		if entry.CheckError() != nil {
			detail = entry.CheckError().Error()
		}
		fmt.Fprintf(r.out, "  %s %s %s\n", r.failure.Render("??"), id, r.muted.Render(detail))
	case step.StatusApplied, step.StatusFailed, step.StatusSkipped:
		// Terminal statuses never appear in a freshly probed plan.
	}
}

// PrintReport writes the run report: one line per executed step, then the
// outcome counts and the run duration.
func (r *Renderer) PrintReport(report *execution.Report) {
	fmt.Fprintln(r.out, r.heading.Render("Run"))

	for _, result := range report.Results() {
		r.printResult(result)
	}

	summary := report.Summary()
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d steps: %s, %d already satisfied",
		summary.Total,
		r.success.Render(fmt.Sprintf("%d applied", summary.Applied)),
		summary.Satisfied)
	if summary.Failed > 0 {
		fmt.Fprintf(r.out, ", %s", r.failure.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(r.out, ", %s", r.warning.Render(fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	fmt.Fprintf(r.out, " in %s\n", report.Duration().Round(time.Millisecond))
}

func (r *Renderer) printResult(result execution.StepResult) {
	id := result.StepID().String()

	switch result.Status() {
	case step.StatusApplied:
		fmt.Fprintf(r.out, "  %s %s\n", r.success.Render("applied"), id)
	case step.StatusSatisfied:
		fmt.Fprintf(r.out, "  %s %s\n", r.muted.Render("ok"), id)
	case step.StatusFailed:
		detail := ""
		if result.Error() != nil {
			detail = result.Error().Error()
		}
		fmt.Fprintf(r.out, "  %s %s %s\n", r.failure.Render("failed"), id, detail)
	case step.StatusSkipped:
		reason := "dependency failed"
		if result.Error() != nil {
			reason = result.Error().Error()
		}
		fmt.Fprintf(r.out, "  %s %s %s\n", r.warning.Render("skipped"), id, r.muted.Render(reason))
	case step.StatusNeedsApply, step.StatusUnknown:
		// Dry runs leave entries probed but unexecuted.
		fmt.Fprintf(r.out, "  %s %s\n", r.warning.Render("pending"), id)
	}
}
