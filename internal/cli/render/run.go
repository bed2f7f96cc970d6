package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/salvo/internal/domain"
)

// RunRenderer renders the live output and final report of a deployment run
type RunRenderer struct {
	out   io.Writer
	color bool
}

// NewRunRenderer creates a new run renderer
func NewRunRenderer(out io.Writer, color bool) *RunRenderer {
	return &RunRenderer{
		out:   out,
		color: color,
	}
}

// GetWriter returns the io.Writer used by this renderer
func (r *RunRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderPlan prints the ordered steps before anything is deployed
func (r *RunRenderer) RenderPlan(network string, plan *domain.DeploymentPlan) {
	fmt.Fprintf(r.out, "\n🎯 Deploying %s to %s\n", plan.Filter.String(), paint(r.color, nameStyle, network))
	if len(plan.Steps) == 0 {
		fmt.Fprintln(r.out, "Nothing to deploy")
		fmt.Fprintln(r.out)
		return
	}

	fmt.Fprintf(r.out, "%s\n", paint(r.color, headerStyle, fmt.Sprintf("📋 Execution plan: %d artifact(s)", len(plan.Steps))))
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))
	for i, step := range plan.Steps {
		fmt.Fprintf(r.out, "%d. %s", i+1, paint(r.color, nameStyle, step.Name))
		if step.Contract != step.Name {
			fmt.Fprintf(r.out, " → %s", paint(r.color, contractStyle, step.Contract))
		}
		if len(step.DependsOn) > 0 {
			fmt.Fprintf(r.out, " %s", paint(r.color, faintStyle, fmt.Sprintf("(depends on: %s)", strings.Join(step.DependsOn, ", "))))
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out)
}

// RenderOutcome prints one line for an artifact as soon as it finishes
func (r *RunRenderer) RenderOutcome(position, total int, outcome domain.ArtifactOutcome) {
	prefix := fmt.Sprintf("[%d/%d]", position, total)
	switch outcome.Status {
	case domain.OutcomeDeployed:
		detail := formatDuration(outcome.Duration)
		if outcome.Reused {
			detail = "already deployed"
		}
		fmt.Fprintf(r.out, "%s %s %s at %s %s\n",
			prefix,
			paint(r.color, deployedStyle, "✓"),
			paint(r.color, nameStyle, outcome.Artifact),
			paint(r.color, addressStyle, outcome.Address),
			paint(r.color, faintStyle, "("+detail+")"))
	case domain.OutcomeFailed:
		fmt.Fprintf(r.out, "%s %s %s: %s\n",
			prefix,
			paint(r.color, failedStyle, "✗"),
			paint(r.color, nameStyle, outcome.Artifact),
			paint(r.color, failedStyle, outcome.Reason))
	default:
		fmt.Fprintf(r.out, "%s %s %s: %s\n",
			prefix,
			paint(r.color, skippedStyle, "⊘"),
			paint(r.color, nameStyle, outcome.Artifact),
			outcome.Reason)
	}
}

// RenderRetryPass announces another pass over the artifacts that did not deploy
func (r *RunRenderer) RenderRetryPass(pass, maxRetries int, names []string) {
	fmt.Fprintf(r.out, "\n%s\n", paint(r.color, skippedStyle,
		fmt.Sprintf("🔁 Retry %d/%d: %s", pass, maxRetries, strings.Join(names, ", "))))
}

// RenderReport prints the aggregate report in plan order followed by a summary
func (r *RunRenderer) RenderReport(report *domain.RunReport) error {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s\n", paint(r.color, networkBgStyle, fmt.Sprintf(" %s ", report.Network)))

	if len(report.Outcomes) > 0 {
		t := newBorderlessTable()
		t.AppendHeader(table.Row{"Artifact", "Status", "Address", "Attempts", "Duration", "Detail"})
		for _, o := range report.Outcomes {
			detail := o.Reason
			if o.Status == domain.OutcomeDeployed && o.Reused {
				detail = "already deployed"
			}
			t.AppendRow(table.Row{
				paint(r.color, nameStyle, o.Artifact),
				r.status(o.Status),
				paint(r.color, addressStyle, o.Address),
				o.Attempts,
				formatDuration(o.Duration),
				detail,
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	fmt.Fprintln(r.out)
	summary := fmt.Sprintf("%d deployed (%d already deployed), %d failed, %d skipped in %s",
		report.Count(domain.OutcomeDeployed),
		report.Reused(),
		report.Count(domain.OutcomeFailed),
		report.Count(domain.OutcomeSkipped),
		formatDuration(report.Duration()))

	switch {
	case report.Cancelled:
		fmt.Fprintln(r.out, FormatWarning("Run cancelled: "+summary))
	case report.Success():
		fmt.Fprintln(r.out, FormatSuccess(summary))
	default:
		fmt.Fprintln(r.out, FormatError(summary))
	}
	fmt.Fprintf(r.out, "%s\n", paint(r.color, faintStyle, "run "+report.RunID))
	return nil
}

func (r *RunRenderer) status(status domain.OutcomeStatus) string {
	label := title(string(status))
	switch status {
	case domain.OutcomeDeployed:
		return paint(r.color, deployedStyle, label)
	case domain.OutcomeFailed:
		return paint(r.color, failedStyle, label)
	default:
		return paint(r.color, skippedStyle, label)
	}
}
