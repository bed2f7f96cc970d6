package domain

import (
	"time"

	"github.com/samber/lo"
)

// DeployResult is what the executor returns for one artifact on one network
type DeployResult struct {
	Artifact string
	Network  string
	Status   LedgerStatus
	Address  string
	Reason   string
	// Reused is set when a current Deployed entry short-circuited the deploy
	Reused   bool
	Duration time.Duration
	Err      error
}

// Deployed reports whether the artifact ended Deployed
func (r *DeployResult) Deployed() bool {
	return r != nil && r.Status == LedgerDeployed
}

// OutcomeStatus is the terminal status of an artifact within one run
type OutcomeStatus string

const (
	OutcomeDeployed OutcomeStatus = "deployed"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeSkipped  OutcomeStatus = "skipped"
)

// ArtifactOutcome is one line of the aggregate report
type ArtifactOutcome struct {
	Artifact string
	Status   OutcomeStatus
	Address  string
	Reason   string
	Attempts int
	Reused   bool
	Duration time.Duration
}

// RunReport aggregates the outcome of every artifact in a plan, in plan order
type RunReport struct {
	RunID      string
	Network    string
	Plan       *DeploymentPlan
	Outcomes   []*ArtifactOutcome
	Cancelled  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Success reports whether every requested artifact ended Deployed
func (r *RunReport) Success() bool {
	return !r.Cancelled && lo.EveryBy(r.Outcomes, func(o *ArtifactOutcome) bool {
		return o.Status == OutcomeDeployed
	})
}

// Outcome returns the outcome for name
func (r *RunReport) Outcome(name string) (*ArtifactOutcome, bool) {
	return lo.Find(r.Outcomes, func(o *ArtifactOutcome) bool {
		return o.Artifact == name
	})
}

// Count returns how many outcomes have status
func (r *RunReport) Count(status OutcomeStatus) int {
	return lo.CountBy(r.Outcomes, func(o *ArtifactOutcome) bool {
		return o.Status == status
	})
}

// Reused returns how many deployed outcomes were satisfied by the ledger
func (r *RunReport) Reused() int {
	return lo.CountBy(r.Outcomes, func(o *ArtifactOutcome) bool {
		return o.Status == OutcomeDeployed && o.Reused
	})
}

// Duration returns the wall time of the run
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
