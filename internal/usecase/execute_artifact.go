package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// ExecuteArtifact deploys one artifact to one network, consulting the
// ledger first so an artifact whose current spec is already deployed is
// never deployed again
type ExecuteArtifact struct {
	ledger *Ledger
	log    *slog.Logger
	now    func() time.Time
}

// NewExecuteArtifact creates a new execute artifact use case
func NewExecuteArtifact(ledger *Ledger, log *slog.Logger) *ExecuteArtifact {
	return &ExecuteArtifact{
		ledger: ledger,
		log:    log.With("component", "ExecuteArtifact"),
		now:    time.Now,
	}
}

// ExecuteRequest describes one executor call
type ExecuteRequest struct {
	Spec    *domain.ArtifactSpec
	Network string
	Client  DeployClient
	RunID   string
	// CallTimeout bounds the client call; zero means no bound
	CallTimeout time.Duration
}

// Execute runs the artifact state machine for (spec, network). Deploy
// failures and timeouts come back as a Failed result. The error return is
// reserved for ledger failures, which must abort the run.
func (e *ExecuteArtifact) Execute(ctx context.Context, req ExecuteRequest) (*domain.DeployResult, error) {
	spec := req.Spec
	start := e.now()
	result := &domain.DeployResult{
		Artifact: spec.Name,
		Network:  req.Network,
	}

	entry, err := e.ledger.Lookup(ctx, spec.Name, req.Network)
	switch {
	case err == nil && entry.IsCurrent(spec.SpecHash):
		e.log.Debug("artifact already deployed", "artifact", spec.Name, "network", req.Network, "address", entry.Address)
		result.Status = domain.LedgerDeployed
		result.Address = entry.Address
		result.Reused = true
		return result, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewLedgerError("lookup", err)
	}

	if err := e.ledger.RecordPending(ctx, spec, req.Network, req.RunID); err != nil {
		return nil, err
	}

	address, callErr := e.call(ctx, req)
	result.Duration = e.now().Sub(start)

	if callErr != nil {
		result.Status = domain.LedgerFailed
		result.Reason = callErr.Error()
		result.Err = callErr
		e.log.Info("deploy failed", "artifact", spec.Name, "network", req.Network, "error", callErr)
		if err := e.ledger.RecordFailure(ctx, spec, req.Network, result.Reason, req.RunID); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := e.ledger.RecordSuccess(ctx, spec, req.Network, address, req.RunID); err != nil {
		return nil, err
	}
	result.Status = domain.LedgerDeployed
	result.Address = address
	e.log.Info("deployed", "artifact", spec.Name, "network", req.Network, "address", address, "duration", result.Duration)
	return result, nil
}

type callResult struct {
	address string
	err     error
}

// call invokes the client with a deadline. The call context does not inherit
// the run's cancellation, only its values: a started deploy is never
// interrupted by a cancelled run. A client that ignores its context is
// abandoned when the deadline passes.
func (e *ExecuteArtifact) call(ctx context.Context, req ExecuteRequest) (string, error) {
	callCtx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if req.CallTimeout > 0 {
		callCtx, cancel = context.WithTimeout(callCtx, req.CallTimeout)
	}
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("client panicked: %v", r)}
			}
		}()
		address, err := req.Client.Deploy(callCtx, req.Spec.Contract, req.Spec.Args)
		done <- callResult{address: address, err: err}
	}()

	deployErr := func(err error) error {
		return &domain.DeployError{
			Artifact: req.Spec.Name,
			Network:  req.Network,
			Timeout:  errors.Is(err, context.DeadlineExceeded),
			Err:      err,
		}
	}

	finish := func(res callResult) (string, error) {
		if res.err != nil {
			return "", deployErr(res.err)
		}
		if res.address == "" {
			return "", deployErr(errors.New("client returned no address"))
		}
		return res.address, nil
	}

	select {
	case res := <-done:
		return finish(res)
	case <-callCtx.Done():
		// a result that raced the deadline still wins
		select {
		case res := <-done:
			return finish(res)
		default:
			return "", deployErr(callCtx.Err())
		}
	}
}
