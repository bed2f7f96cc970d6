package usecase

import (
	"context"
	"errors"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// StepState describes what a run would do with a plan step
type StepState string

const (
	StepNew      StepState = "new"
	StepStale    StepState = "stale"
	StepDeployed StepState = "deployed"
	StepFailed   StepState = "failed"
	StepPending  StepState = "pending"
)

// PlannedStep is a plan step together with its ledger state
type PlannedStep struct {
	Spec  *domain.ArtifactSpec
	State StepState
	Entry *domain.LedgerEntry
	Wave  int
}

// ShowPlanResult contains the resolved plan without executing it
type ShowPlanResult struct {
	Network string
	Plan    *domain.DeploymentPlan
	Steps   []PlannedStep
}

// ShowPlan resolves a plan and annotates it with ledger state
type ShowPlan struct {
	manifest ManifestLoader
	resolver *ResolvePlan
	ledger   *Ledger
}

// NewShowPlan creates a new ShowPlan use case
func NewShowPlan(manifest ManifestLoader, resolver *ResolvePlan, ledger *Ledger) *ShowPlan {
	return &ShowPlan{
		manifest: manifest,
		resolver: resolver,
		ledger:   ledger,
	}
}

// Run executes the use case
func (uc *ShowPlan) Run(ctx context.Context, filter domain.PlanFilter, network string) (*ShowPlanResult, error) {
	registry, err := uc.manifest.Load(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := uc.resolver.Resolve(ctx, registry, filter)
	if err != nil {
		return nil, err
	}

	waves := make(map[string]int, len(plan.Steps))
	for i, wave := range plan.Batches() {
		for _, step := range wave {
			waves[step.Name] = i
		}
	}

	result := &ShowPlanResult{Network: network, Plan: plan}
	for _, step := range plan.Steps {
		entry, err := uc.ledger.Lookup(ctx, step.Name, network)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		result.Steps = append(result.Steps, PlannedStep{
			Spec:  step,
			State: stepState(step, entry),
			Entry: entry,
			Wave:  waves[step.Name],
		})
	}
	return result, nil
}

func stepState(spec *domain.ArtifactSpec, entry *domain.LedgerEntry) StepState {
	switch {
	case entry == nil:
		return StepNew
	case entry.SpecHash != spec.SpecHash:
		return StepStale
	case entry.Status == domain.LedgerDeployed:
		return StepDeployed
	case entry.Status == domain.LedgerFailed:
		return StepFailed
	default:
		return StepPending
	}
}
