package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trebuchet-org/salvo/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq         BIGSERIAL PRIMARY KEY,
	artifact    TEXT NOT NULL,
	network     TEXT NOT NULL,
	spec_hash   TEXT NOT NULL,
	status      TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL DEFAULT '',
	run_id      TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL
)`

// PostgresRepository stores ledger records in a shared PostgreSQL table, so
// several operators can deploy against one ledger
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	mu   sync.Mutex
}

// NewPostgresRepository connects to databaseURL and creates the table
func NewPostgresRepository(ctx context.Context, databaseURL string, log *slog.Logger) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	return &PostgresRepository{pool: pool, log: log.With("component", "PostgresRepository")}, nil
}

// Records returns every row in seq order
func (r *PostgresRepository) Records(ctx context.Context) ([]domain.LedgerRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT seq, artifact, network, spec_hash, status, address, reason, run_id, recorded_at
		FROM ledger_records
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger records: %w", err)
	}

	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByPos[recordRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger records: %w", err)
	}

	records := make([]domain.LedgerRecord, 0, len(rowsOut))
	for _, row := range rowsOut {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append inserts one row and returns it with the assigned sequence
func (r *PostgresRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ledger_records (artifact, network, spec_hash, status, address, reason, run_id, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`,
		entry.Artifact, entry.Network, entry.SpecHash.Hex(), string(entry.Status),
		entry.Address, entry.Reason, entry.RunID, entry.Timestamp,
	).Scan(&seq)
	if err != nil {
		return domain.LedgerRecord{}, fmt.Errorf("failed to insert ledger record: %w", err)
	}
	return domain.LedgerRecord{Seq: uint64(seq), LedgerEntry: entry}, nil
}

// Close closes the pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
