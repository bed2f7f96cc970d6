package ledger

import (
	"context"
	"sync"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// MemoryRepository keeps ledger records in process memory. It backs dry runs
// and tests; nothing survives Close.
type MemoryRepository struct {
	mu      sync.Mutex
	records []domain.LedgerRecord
	closed  bool
}

// NewMemoryRepository creates a repository seeded with records
func NewMemoryRepository(records ...domain.LedgerRecord) *MemoryRepository {
	return &MemoryRepository{records: append([]domain.LedgerRecord(nil), records...)}
}

// Records returns every record in append order
func (m *MemoryRepository) Records(ctx context.Context) ([]domain.LedgerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LedgerRecord(nil), m.records...), nil
}

// Append stores one record
func (m *MemoryRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.LedgerRecord{}, ErrClosed
	}
	rec := domain.LedgerRecord{Seq: nextSeq(m.records), LedgerEntry: entry}
	m.records = append(m.records, rec)
	return rec, nil
}

// Close marks the repository closed
func (m *MemoryRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func nextSeq(records []domain.LedgerRecord) uint64 {
	if len(records) == 0 {
		return 1
	}
	return records[len(records)-1].Seq + 1
}
