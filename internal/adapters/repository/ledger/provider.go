package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/domain/config"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// NewRepository opens the ledger backend selected in cfg. The returned
// cleanup flushes and closes it.
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.LedgerStore, func(), error) {
	ctx := context.Background()

	var (
		store usecase.LedgerStore
		err   error
	)
	switch cfg.Ledger.Backend {
	case config.LedgerBackendFile, "":
		store, err = NewFileRepository(cfg.Ledger.Path, log)
	case config.LedgerBackendSQLite:
		store, err = NewSQLiteRepository(ctx, cfg.Ledger.Path, log)
	case config.LedgerBackendPostgres:
		store, err = NewPostgresRepository(ctx, cfg.Ledger.DSN, log)
	case config.LedgerBackendMemory:
		store = NewMemoryRepository()
	default:
		err = fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
	if err != nil {
		return nil, nil, domain.NewLedgerError("open", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close ledger", "backend", cfg.Ledger.Backend, "error", err)
		}
	}
	return store, cleanup, nil
}
