package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// Ledger is the durable record of deployment status per artifact per
// network. RecordPending, RecordSuccess and RecordFailure are the only
// mutators; each one is persisted by the store before it returns.
type Ledger struct {
	store LedgerStore
	log   *slog.Logger
	now   func() time.Time

	mu    sync.RWMutex
	state map[domain.LedgerKey]*domain.LedgerEntry

	keys keyedMutex
}

// NewLedger rebuilds current state from every stored record
func NewLedger(store LedgerStore, log *slog.Logger) (*Ledger, error) {
	records, err := store.Records(context.Background())
	if err != nil {
		return nil, domain.NewLedgerError("load", err)
	}

	l := &Ledger{
		store: store,
		log:   log.With("component", "Ledger"),
		now:   time.Now,
		state: domain.ReplayRecords(records),
	}
	l.log.Debug("ledger loaded", "records", len(records), "entries", len(l.state))
	return l, nil
}

// Lookup returns the current entry for (artifact, network) or domain.ErrNotFound
func (l *Ledger) Lookup(ctx context.Context, artifact, network string) (*domain.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.state[domain.LedgerKey{Artifact: artifact, Network: network}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

// Entries returns current entries for network, or for every network when
// network is empty, sorted by network then artifact
func (l *Ledger) Entries(ctx context.Context, network string) []*domain.LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*domain.LedgerEntry
	for key, entry := range l.state {
		if network != "" && key.Network != network {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}

	slices.SortFunc(out, func(a, b *domain.LedgerEntry) int {
		if c := strings.Compare(a.Network, b.Network); c != 0 {
			return c
		}
		return strings.Compare(a.Artifact, b.Artifact)
	})
	return out
}

// RecordPending marks spec as being deployed to network
func (l *Ledger) RecordPending(ctx context.Context, spec *domain.ArtifactSpec, network, runID string) error {
	return l.record(ctx, domain.LedgerEntry{
		Artifact: spec.Name,
		Network:  network,
		SpecHash: spec.SpecHash,
		Status:   domain.LedgerPending,
		RunID:    runID,
	})
}

// RecordSuccess marks spec as deployed at address. Recording the same spec
// hash and address over a current Deployed entry writes nothing.
func (l *Ledger) RecordSuccess(ctx context.Context, spec *domain.ArtifactSpec, network, address, runID string) error {
	return l.record(ctx, domain.LedgerEntry{
		Artifact: spec.Name,
		Network:  network,
		SpecHash: spec.SpecHash,
		Status:   domain.LedgerDeployed,
		Address:  address,
		RunID:    runID,
	})
}

// RecordFailure marks the deploy of spec as failed with reason
func (l *Ledger) RecordFailure(ctx context.Context, spec *domain.ArtifactSpec, network, reason, runID string) error {
	return l.record(ctx, domain.LedgerEntry{
		Artifact: spec.Name,
		Network:  network,
		SpecHash: spec.SpecHash,
		Status:   domain.LedgerFailed,
		Reason:   reason,
		RunID:    runID,
	})
}

// record serializes writes per key so the idempotency check and the append
// are atomic with respect to other writers of the same key
func (l *Ledger) record(ctx context.Context, entry domain.LedgerEntry) error {
	key := entry.Key()
	unlock := l.keys.Lock(key)
	defer unlock()

	if entry.Status == domain.LedgerDeployed {
		l.mu.RLock()
		current, ok := l.state[key]
		l.mu.RUnlock()
		if ok && current.IsCurrent(entry.SpecHash) && current.Address == entry.Address {
			l.log.Debug("success already recorded", "key", key.String(), "address", entry.Address)
			return nil
		}
	}

	// a write that follows a finished deploy must land even if the run was cancelled
	entry.Timestamp = l.now().UTC()
	rec, err := l.store.Append(context.WithoutCancel(ctx), entry)
	if err != nil {
		return domain.NewLedgerError("append", err)
	}

	l.mu.Lock()
	stored := rec.LedgerEntry
	l.state[key] = &stored
	l.mu.Unlock()

	l.log.Debug("ledger record appended", "key", key.String(), "status", entry.Status, "seq", rec.Seq)
	return nil
}

// keyedMutex hands out one mutex per ledger key
type keyedMutex struct {
	mu    sync.Mutex
	locks map[domain.LedgerKey]*sync.Mutex
}

// Lock acquires the mutex for key and returns its release function
func (k *keyedMutex) Lock(key domain.LedgerKey) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[domain.LedgerKey]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
