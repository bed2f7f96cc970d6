package progress

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/salvo/internal/cli/render"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

func TestRunProgress(t *testing.T) {
	token, err := domain.NewArtifactSpec("MyToken", "", nil, nil, nil)
	require.NoError(t, err)
	plan := &domain.DeploymentPlan{Steps: []*domain.ArtifactSpec{token}}

	var buf bytes.Buffer
	p := NewRunProgress(render.NewRunRenderer(&buf, false), false)
	ctx := context.Background()

	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StagePlanCreated, Message: "local", Total: 1, Metadata: plan})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageArtifactStarting, Message: "MyToken", Current: 1, Total: 1, Spinner: true})
	assert.Equal(t, "Deploying MyToken (1/1)", p.suffix(1))

	p.OnProgress(ctx, usecase.ProgressEvent{
		Stage:    usecase.StageArtifactCompleted,
		Message:  "MyToken",
		Current:  1,
		Total:    1,
		Metadata: domain.ArtifactOutcome{Artifact: "MyToken", Status: domain.OutcomeFailed, Reason: "boom"},
	})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageRetryPass, Current: 1, Total: 2, Metadata: []string{"MyToken"}})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageRunCompleted})

	out := buf.String()
	assert.Contains(t, out, "Deploying all artifacts to local")
	assert.Contains(t, out, "[1/1] ✗ MyToken: boom")
	assert.Contains(t, out, "Retry 1/2: MyToken")
	assert.Empty(t, p.inFlight)
}

func TestRunProgressWrongMetadata(t *testing.T) {
	var buf bytes.Buffer
	p := NewRunProgress(render.NewRunRenderer(&buf, false), false)

	p.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StagePlanCreated, Metadata: "nope"})
	assert.Contains(t, buf.String(), "wrong data-type in plan event")
}

func TestRunProgressConcurrentEvents(t *testing.T) {
	var buf bytes.Buffer
	p := NewRunProgress(render.NewRunRenderer(&buf, false), false)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D"}
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageArtifactStarting, Message: name, Current: i + 1, Total: len(names)})
			p.OnProgress(ctx, usecase.ProgressEvent{
				Stage:    usecase.StageArtifactCompleted,
				Message:  name,
				Current:  i + 1,
				Total:    len(names),
				Metadata: domain.ArtifactOutcome{Artifact: name, Status: domain.OutcomeDeployed, Address: "0x1"},
			})
		}()
	}
	wg.Wait()

	assert.Empty(t, p.inFlight)
	for _, name := range names {
		assert.Contains(t, buf.String(), "✓ "+name+" at 0x1")
	}
}
