package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trebuchet-org/salvo/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact    TEXT NOT NULL,
	network     TEXT NOT NULL,
	spec_hash   TEXT NOT NULL,
	status      TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL DEFAULT '',
	run_id      TEXT NOT NULL DEFAULT '',
	recorded_at TEXT NOT NULL
)`

// SQLiteRepository stores ledger records in an append-only SQLite table
type SQLiteRepository struct {
	db  *sql.DB
	log *slog.Logger
	mu  sync.Mutex
}

// NewSQLiteRepository opens the database at path and creates the table
func NewSQLiteRepository(ctx context.Context, path string, log *slog.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	// one writer keeps appends strictly ordered
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	log.Debug("ledger database opened", "component", "SQLiteRepository", "path", path)
	return &SQLiteRepository{db: db, log: log.With("component", "SQLiteRepository")}, nil
}

// Records returns every row in seq order
func (r *SQLiteRepository) Records(ctx context.Context) ([]domain.LedgerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, artifact, network, spec_hash, status, address, reason, run_id, recorded_at
		FROM ledger_records
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger records: %w", err)
	}
	defer rows.Close()

	var records []domain.LedgerRecord
	for rows.Next() {
		var row recordRow
		var recordedAt string
		if err := rows.Scan(&row.Seq, &row.Artifact, &row.Network, &row.SpecHash, &row.Status,
			&row.Address, &row.Reason, &row.RunID, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		if row.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("ledger row %d: bad timestamp: %w", row.Seq, err)
		}
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger records: %w", err)
	}
	return records, nil
}

// Append inserts one row; the insert is committed when it returns
func (r *SQLiteRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO ledger_records (artifact, network, spec_hash, status, address, reason, run_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Artifact, entry.Network, entry.SpecHash.Hex(), string(entry.Status),
		entry.Address, entry.Reason, entry.RunID, entry.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.LedgerRecord{}, fmt.Errorf("failed to insert ledger record: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return domain.LedgerRecord{}, fmt.Errorf("failed to read ledger sequence: %w", err)
	}
	return domain.LedgerRecord{Seq: uint64(seq), LedgerEntry: entry}, nil
}

// Close closes the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
