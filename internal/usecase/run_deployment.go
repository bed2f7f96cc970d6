package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// RunDeployment resolves a plan and drives it to completion on one network
type RunDeployment struct {
	manifest ManifestLoader
	resolver *ResolvePlan
	executor *ExecuteArtifact
	progress ProgressSink
	log      *slog.Logger
	now      func() time.Time
	newRunID func() string
}

// NewRunDeployment creates a new run deployment use case
func NewRunDeployment(
	manifest ManifestLoader,
	resolver *ResolvePlan,
	executor *ExecuteArtifact,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployment {
	if progress == nil {
		progress = NopProgress{}
	}
	return &RunDeployment{
		manifest: manifest,
		resolver: resolver,
		executor: executor,
		progress: progress,
		log:      log.With("component", "RunDeployment"),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// RunOptions control failure handling and scheduling
type RunOptions struct {
	StopOnFirstFailure bool
	// MaxRetries is the number of extra passes over steps that did not deploy
	MaxRetries  int
	CallTimeout time.Duration
	// Parallelism above 1 runs independent steps of a wave concurrently
	Parallelism int
}

// RunParams contains parameters for a deployment run
type RunParams struct {
	Filter  domain.PlanFilter
	Network string
	Client  DeployClient
	Options RunOptions
}

// Run resolves the plan once and executes it. Individual deploy failures are
// reported in the RunReport, never returned. Configuration errors abort before
// any deploy call; ledger errors abort the run where they happen. A cancelled
// context stops the run between artifacts and returns the partial report with
// the context error.
func (r *RunDeployment) Run(ctx context.Context, params RunParams) (*domain.RunReport, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("no deploy client for network %s", params.Network)
	}

	registry, err := r.manifest.Load(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := r.resolver.Resolve(ctx, registry, params.Filter)
	if err != nil {
		return nil, err
	}

	run := newRunState(r, params, plan)
	r.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StagePlanCreated,
		Total:    len(plan.Steps),
		Message:  params.Network,
		Metadata: plan,
	})
	r.log.Info("run started", "run", run.report.RunID, "network", params.Network, "steps", len(plan.Steps))

	err = run.execute(ctx)

	run.report.FinishedAt = r.now()
	r.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageRunCompleted,
		Current:  run.report.Count(domain.OutcomeDeployed),
		Total:    len(plan.Steps),
		Metadata: run.report,
	})
	r.log.Info("run finished",
		"run", run.report.RunID,
		"deployed", run.report.Count(domain.OutcomeDeployed),
		"failed", run.report.Count(domain.OutcomeFailed),
		"skipped", run.report.Count(domain.OutcomeSkipped),
		"cancelled", run.report.Cancelled,
	)

	return run.report, err
}

// runState is the mutable state of one Run call
type runState struct {
	uc     *RunDeployment
	params RunParams
	report *domain.RunReport

	mu       sync.Mutex
	outcomes map[string]*domain.ArtifactOutcome
	stopped  atomic.Bool
}

func newRunState(uc *RunDeployment, params RunParams, plan *domain.DeploymentPlan) *runState {
	s := &runState{
		uc:     uc,
		params: params,
		report: &domain.RunReport{
			RunID:     uc.newRunID(),
			Network:   params.Network,
			Plan:      plan,
			StartedAt: uc.now(),
		},
		outcomes: make(map[string]*domain.ArtifactOutcome, len(plan.Steps)),
	}
	for _, step := range plan.Steps {
		outcome := &domain.ArtifactOutcome{
			Artifact: step.Name,
			Status:   domain.OutcomeSkipped,
			Reason:   "not attempted",
		}
		s.outcomes[step.Name] = outcome
		s.report.Outcomes = append(s.report.Outcomes, outcome)
	}
	return s
}

func (s *runState) execute(ctx context.Context) error {
	opts := s.params.Options
	pending := s.report.Plan.Steps

	for pass := 0; ; pass++ {
		if err := s.runPass(ctx, pending); err != nil {
			return err
		}
		if s.stopped.Load() || opts.StopOnFirstFailure || pass >= opts.MaxRetries {
			return nil
		}

		pending = lo.Filter(s.report.Plan.Steps, func(step *domain.ArtifactSpec, _ int) bool {
			return s.outcome(step.Name).Status != domain.OutcomeDeployed
		})
		if len(pending) == 0 {
			return nil
		}

		s.uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageRetryPass,
			Current:  pass + 1,
			Total:    opts.MaxRetries,
			Message:  fmt.Sprintf("retrying %d artifact(s)", len(pending)),
			Metadata: lo.Map(pending, func(step *domain.ArtifactSpec, _ int) string { return step.Name }),
		})
		s.uc.log.Info("retry pass", "pass", pass+1, "artifacts", len(pending))
	}
}

func (s *runState) runPass(ctx context.Context, steps []*domain.ArtifactSpec) error {
	if s.params.Options.Parallelism <= 1 {
		for _, step := range steps {
			if err := s.runStep(ctx, step); err != nil {
				return err
			}
		}
		return s.cancelled(ctx)
	}

	waves := (&domain.DeploymentPlan{Steps: steps}).Batches()
	for _, wave := range waves {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.params.Options.Parallelism)
		for _, step := range wave {
			g.Go(func() error {
				return s.runStep(gctx, step)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return s.cancelled(ctx)
}

// cancelled marks the report when ctx ended the pass early
func (s *runState) cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.report.Cancelled = true
		s.stopped.Store(true)
		s.uc.log.Warn("run cancelled", "run", s.report.RunID, "error", err)
		return err
	}
	return nil
}

// runStep executes a single step unless the run was stopped, ctx is done or
// a dependency has not been deployed. ctx is only checked here, between
// artifacts.
func (s *runState) runStep(ctx context.Context, step *domain.ArtifactSpec) error {
	if s.stopped.Load() {
		return nil
	}
	if ctx.Err() != nil {
		s.setReason(step.Name, "cancelled")
		return nil
	}
	if dep, blocked := s.blockedBy(step); blocked {
		s.setReason(step.Name, fmt.Sprintf("dependency %s not deployed", dep))
		return nil
	}

	position := s.report.Plan.Position(step.Name) + 1
	total := len(s.report.Plan.Steps)
	s.uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageArtifactStarting,
		Current: position,
		Total:   total,
		Message: step.Name,
		Spinner: true,
	})

	result, err := s.uc.executor.Execute(ctx, ExecuteRequest{
		Spec:        step,
		Network:     s.params.Network,
		Client:      s.params.Client,
		RunID:       s.report.RunID,
		CallTimeout: s.params.Options.CallTimeout,
	})
	if err != nil {
		s.stopped.Store(true)
		s.uc.progress.Error(fmt.Sprintf("Stopping run: ledger unavailable while deploying %s", step.Name))
		return err
	}

	outcome := s.record(result)
	s.uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageArtifactCompleted,
		Current:  position,
		Total:    total,
		Message:  step.Name,
		Metadata: outcome,
	})

	if !result.Deployed() && s.params.Options.StopOnFirstFailure && s.stopped.CompareAndSwap(false, true) {
		s.markRemaining(fmt.Sprintf("aborted after %s failed", step.Name))
		s.uc.progress.Info(fmt.Sprintf("Stopping after %s failed (stop-on-failure)", step.Name))
	}
	return nil
}

func (s *runState) blockedBy(step *domain.ArtifactSpec) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dep := range step.DependsOn {
		if o, ok := s.outcomes[dep]; ok && o.Status != domain.OutcomeDeployed {
			return dep, true
		}
	}
	return "", false
}

// record folds an executor result into the outcome and returns a snapshot
func (s *runState) record(result *domain.DeployResult) domain.ArtifactOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.outcomes[result.Artifact]
	o.Attempts++
	o.Duration += result.Duration
	o.Reused = result.Reused
	if result.Deployed() {
		o.Status = domain.OutcomeDeployed
		o.Address = result.Address
		o.Reason = ""
	} else {
		o.Status = domain.OutcomeFailed
		o.Address = ""
		o.Reason = result.Reason
	}
	return *o
}

func (s *runState) setReason(name, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.outcomes[name]; o.Status == domain.OutcomeSkipped {
		o.Reason = reason
	}
}

// markRemaining labels every never-attempted step
func (s *runState) markRemaining(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.outcomes {
		if o.Status == domain.OutcomeSkipped && o.Attempts == 0 {
			o.Reason = reason
		}
	}
}

func (s *runState) outcome(name string) domain.ArtifactOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.outcomes[name]
}
