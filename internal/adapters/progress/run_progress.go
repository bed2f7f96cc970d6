package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/trebuchet-org/salvo/internal/cli/render"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// RunProgress renders deployment run events as they happen. Parallel runs
// report from several goroutines, so all state sits behind mu.
type RunProgress struct {
	renderer *render.RunRenderer
	spinner  *SpinnerProgressReporter

	mu       sync.Mutex
	inFlight map[string]int
}

// NewRunProgress creates a run progress sink. The spinner is only drawn when
// interactive is set.
func NewRunProgress(renderer *render.RunRenderer, interactive bool) *RunProgress {
	return &RunProgress{
		renderer: renderer,
		spinner:  NewSpinnerProgressReporter(renderer.GetWriter(), interactive),
		inFlight: make(map[string]int),
	}
}

// OnProgress handles progress events
func (p *RunProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StagePlanCreated:
		plan, ok := event.Metadata.(*domain.DeploymentPlan)
		if !ok {
			p.spinner.Info("Warning: wrong data-type in plan event")
			return
		}
		p.spinner.Print(func() { p.renderer.RenderPlan(event.Message, plan) })

	case usecase.StageArtifactStarting:
		p.mu.Lock()
		p.inFlight[event.Message] = event.Current
		suffix := p.suffix(event.Total)
		p.mu.Unlock()
		p.spinner.Spin(suffix)

	case usecase.StageArtifactCompleted:
		outcome, ok := event.Metadata.(domain.ArtifactOutcome)
		if !ok {
			p.spinner.Info("Warning: wrong data-type in artifact event")
			return
		}
		p.mu.Lock()
		delete(p.inFlight, event.Message)
		remaining := len(p.inFlight)
		suffix := p.suffix(event.Total)
		p.mu.Unlock()

		p.spinner.Print(func() { p.renderer.RenderOutcome(event.Current, event.Total, outcome) })
		if remaining == 0 {
			p.spinner.Stop()
		} else {
			p.spinner.Spin(suffix)
		}

	case usecase.StageRetryPass:
		names, _ := event.Metadata.([]string)
		p.spinner.Print(func() { p.renderer.RenderRetryPass(event.Current, event.Total, names) })

	case usecase.StageRunCompleted:
		p.mu.Lock()
		clear(p.inFlight)
		p.mu.Unlock()
		p.spinner.Stop()
	}
}

// suffix describes the artifacts currently deploying; mu must be held
func (p *RunProgress) suffix(total int) string {
	if len(p.inFlight) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.inFlight))
	for name := range p.inFlight {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return p.inFlight[names[i]] < p.inFlight[names[j]] })
	if len(names) == 1 {
		return fmt.Sprintf("Deploying %s (%d/%d)", names[0], p.inFlight[names[0]], total)
	}
	return fmt.Sprintf("Deploying %s (%d in flight of %d)", strings.Join(names, ", "), len(names), total)
}

// Info prints an info message
func (p *RunProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error prints an error message
func (p *RunProgress) Error(message string) {
	p.spinner.Error(message)
}

// Ensure RunProgress implements ProgressSink
var _ usecase.ProgressSink = (*RunProgress)(nil)
