package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// PlanRenderer renders a resolved plan without executing it
type PlanRenderer struct {
	out   io.Writer
	color bool
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer, color bool) *PlanRenderer {
	return &PlanRenderer{
		out:   out,
		color: color,
	}
}

// RenderPlan renders each step with the action a run would take on it
func (r *PlanRenderer) RenderPlan(result *usecase.ShowPlanResult) error {
	if len(result.Steps) == 0 {
		fmt.Fprintln(r.out, "No artifacts match")
		return nil
	}

	fmt.Fprintf(r.out, "%s %s\n\n",
		paint(r.color, networkBgStyle, fmt.Sprintf(" %s ", result.Network)),
		paint(r.color, headerStyle, fmt.Sprintf("%d artifact(s), %s", len(result.Steps), result.Plan.Filter.String())))

	t := newBorderlessTable()
	t.AppendHeader(table.Row{"#", "Artifact", "Contract", "Wave", "State", "Address", "Depends On"})
	for i, step := range result.Steps {
		address := ""
		if step.Entry != nil {
			address = step.Entry.Address
		}
		t.AppendRow(table.Row{
			i + 1,
			paint(r.color, nameStyle, step.Spec.Name),
			paint(r.color, contractStyle, step.Spec.Contract),
			step.Wave + 1,
			r.state(step.State),
			paint(r.color, addressStyle, address),
			paint(r.color, faintStyle, strings.Join(step.Spec.DependsOn, ", ")),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	pending := 0
	for _, step := range result.Steps {
		if step.State != usecase.StepDeployed {
			pending++
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d to deploy, %d already deployed\n", pending, len(result.Steps)-pending)
	return nil
}

func (r *PlanRenderer) state(state usecase.StepState) string {
	label := title(string(state))
	switch state {
	case usecase.StepDeployed:
		return paint(r.color, deployedStyle, label)
	case usecase.StepFailed:
		return paint(r.color, failedStyle, label)
	case usecase.StepStale, usecase.StepPending:
		return paint(r.color, skippedStyle, label)
	default:
		return label
	}
}
