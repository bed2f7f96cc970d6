package ledger

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// recordRow is the column layout shared by the SQL repositories
type recordRow struct {
	Seq        int64
	Artifact   string
	Network    string
	SpecHash   string
	Status     string
	Address    string
	Reason     string
	RunID      string
	RecordedAt time.Time
}

func (row recordRow) toRecord() (domain.LedgerRecord, error) {
	status := domain.LedgerStatus(row.Status)
	if !status.Valid() {
		return domain.LedgerRecord{}, fmt.Errorf("ledger row %d: unknown status %q", row.Seq, row.Status)
	}
	return domain.LedgerRecord{
		Seq: uint64(row.Seq),
		LedgerEntry: domain.LedgerEntry{
			Artifact:  row.Artifact,
			Network:   row.Network,
			SpecHash:  common.HexToHash(row.SpecHash),
			Status:    status,
			Address:   row.Address,
			Reason:    row.Reason,
			RunID:     row.RunID,
			Timestamp: row.RecordedAt.UTC(),
		},
	}, nil
}
