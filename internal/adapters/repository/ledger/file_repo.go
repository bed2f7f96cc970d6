package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// ErrClosed is returned when appending to a closed repository
var ErrClosed = errors.New("ledger repository is closed")

// appendFile is the subset of *os.File an append needs, including rollback
type appendFile interface {
	io.WriteSeeker
	Truncate(size int64) error
	Sync() error
	Close() error
}

// FileRepository stores ledger records as JSON lines in a single append-only
// file. Every append is fsync'd before it returns. A failed append is cut back
// off the file; if that fails too the repository refuses further appends.
type FileRepository struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	file    appendFile
	broken  error
	records []domain.LedgerRecord
}

// NewFileRepository opens (or creates) the ledger file at path and reads
// every record in it. A partial trailing line, left by a crash mid-write, is
// cut off with a warning; any other undecodable line is an error.
func NewFileRepository(path string, log *slog.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	r := &FileRepository{
		path: path,
		log:  log.With("component", "FileRepository"),
	}

	valid, err := r.load()
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	if err := r.truncateTail(file, valid); err != nil {
		file.Close()
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to seek ledger file: %w", err)
	}

	r.file = file
	r.log.Debug("ledger file opened", "path", path, "records", len(r.records))
	return r, nil
}

// load decodes the file and returns the length of its valid prefix
func (r *FileRepository) load() (int64, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var offset int64
	line := 0
	for len(data) > 0 {
		line++
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			r.log.Warn("ignoring incomplete ledger record", "path", r.path, "line", line, "bytes", len(data))
			break
		}

		raw := bytes.TrimSpace(data[:nl])
		if len(raw) > 0 {
			var rec domain.LedgerRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return 0, fmt.Errorf("corrupt ledger record at %s:%d: %w", r.path, line, err)
			}
			if !rec.Status.Valid() {
				return 0, fmt.Errorf("corrupt ledger record at %s:%d: unknown status %q", r.path, line, rec.Status)
			}
			r.records = append(r.records, rec)
		}

		offset += int64(nl + 1)
		data = data[nl+1:]
	}
	return offset, nil
}

func (r *FileRepository) truncateTail(file *os.File, valid int64) error {
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat ledger file: %w", err)
	}
	if info.Size() == valid {
		return nil
	}
	if err := file.Truncate(valid); err != nil {
		return fmt.Errorf("failed to truncate ledger file: %w", err)
	}
	return file.Sync()
}

// Records returns every record in append order
func (r *FileRepository) Records(ctx context.Context) ([]domain.LedgerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LedgerRecord(nil), r.records...), nil
}

// Append writes one record as a line and syncs the file
func (r *FileRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return domain.LedgerRecord{}, ErrClosed
	}
	if r.broken != nil {
		return domain.LedgerRecord{}, fmt.Errorf("ledger file %s needs repair: %w", r.path, r.broken)
	}

	rec := domain.LedgerRecord{Seq: nextSeq(r.records), LedgerEntry: entry}
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.LedgerRecord{}, fmt.Errorf("failed to encode ledger record: %w", err)
	}
	data = append(data, '\n')

	offset, err := r.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return domain.LedgerRecord{}, fmt.Errorf("failed to seek ledger file: %w", err)
	}

	if _, err := r.file.Write(data); err != nil {
		err = fmt.Errorf("failed to write ledger record: %w", err)
		r.rollback(offset, err)
		return domain.LedgerRecord{}, err
	}
	if err := r.file.Sync(); err != nil {
		err = fmt.Errorf("failed to sync ledger file: %w", err)
		r.rollback(offset, err)
		return domain.LedgerRecord{}, err
	}

	r.records = append(r.records, rec)
	return rec, nil
}

// rollback cuts the file back to offset after a failed append. The caller
// holds r.mu.
func (r *FileRepository) rollback(offset int64, cause error) {
	err := r.file.Truncate(offset)
	if err == nil {
		_, err = r.file.Seek(offset, io.SeekStart)
	}
	if err == nil {
		err = r.file.Sync()
	}
	if err != nil {
		r.broken = errors.Join(cause, fmt.Errorf("failed to roll back ledger file: %w", err))
		r.log.Error("ledger file left with a partial record", "path", r.path, "offset", offset, "error", err)
		return
	}
	r.log.Warn("rolled back failed ledger append", "path", r.path, "offset", offset, "error", cause)
}

// Close syncs and closes the file
func (r *FileRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	file := r.file
	r.file = nil

	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync ledger file: %w", err)
	}
	return file.Close()
}
