package usecase

import (
	"context"

	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// LedgerStore persists ledger records. Implementations read every record on
// open, append durably, and are safe for concurrent use.
type LedgerStore interface {
	// Records returns every record in append order
	Records(ctx context.Context) ([]domain.LedgerRecord, error)
	// Append durably writes one record and returns it with its sequence set
	Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error)
	// Close flushes and releases the storage handle
	Close() error
}

// DeployClient is the narrow capability the core needs from a target environment
type DeployClient interface {
	Deploy(ctx context.Context, name string, args []any) (address string, err error)
}

// DeployClientFactory builds a client for a configured network
type DeployClientFactory interface {
	ClientFor(ctx context.Context, network *config.Network) (DeployClient, error)
}

// ManifestLoader loads the artifact registry
type ManifestLoader interface {
	Load(ctx context.Context) (*domain.Registry, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// Confirmer asks the operator to approve a deployment to a guarded network
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Progress tracking interfaces

// ProgressStage names the events a run emits
type ProgressStage string

const (
	StagePlanCreated       ProgressStage = "plan_created"
	StageArtifactStarting  ProgressStage = "artifact_starting"
	StageArtifactCompleted ProgressStage = "artifact_completed"
	StageRetryPass         ProgressStage = "retry_pass"
	StageRunCompleted      ProgressStage = "run_completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ProgressStage
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events. Parallel runs call OnProgress from
// several goroutines.
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
