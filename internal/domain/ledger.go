package domain

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// LedgerStatus is the per-network deployment state of one artifact
type LedgerStatus string

const (
	LedgerPending  LedgerStatus = "PENDING"
	LedgerDeployed LedgerStatus = "DEPLOYED"
	LedgerFailed   LedgerStatus = "FAILED"
)

// Valid reports whether s is a known status
func (s LedgerStatus) Valid() bool {
	switch s {
	case LedgerPending, LedgerDeployed, LedgerFailed:
		return true
	}
	return false
}

// LedgerKey identifies a ledger entry
type LedgerKey struct {
	Artifact string
	Network  string
}

func (k LedgerKey) String() string {
	return fmt.Sprintf("%s@%s", k.Artifact, k.Network)
}

// LedgerEntry is the current state for one (artifact, network) pair
type LedgerEntry struct {
	Artifact  string       `json:"artifact"`
	Network   string       `json:"network"`
	SpecHash  common.Hash  `json:"specHash"`
	Status    LedgerStatus `json:"status"`
	Address   string       `json:"address,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	RunID     string       `json:"runId,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Key returns the entry's ledger key
func (e *LedgerEntry) Key() LedgerKey {
	return LedgerKey{Artifact: e.Artifact, Network: e.Network}
}

// IsCurrent reports whether the entry is Deployed for exactly this spec hash
func (e *LedgerEntry) IsCurrent(hash common.Hash) bool {
	return e.Status == LedgerDeployed && e.SpecHash == hash
}

// LedgerRecord is one append-only storage record. Replaying records in Seq
// order and keeping the last one per key yields the current entries.
type LedgerRecord struct {
	Seq uint64 `json:"seq"`
	LedgerEntry
}

// ReplayRecords folds records into current state, last record per key wins
func ReplayRecords(records []LedgerRecord) map[LedgerKey]*LedgerEntry {
	state := make(map[LedgerKey]*LedgerEntry, len(records))
	for i := range records {
		entry := records[i].LedgerEntry
		state[entry.Key()] = &entry
	}
	return state
}
