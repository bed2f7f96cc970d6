package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/salvo/internal/adapters/repository/ledger"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/logging"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// MockDeployClient is a mock implementation of DeployClient
type MockDeployClient struct {
	mock.Mock
}

func (m *MockDeployClient) Deploy(ctx context.Context, name string, args []any) (string, error) {
	ret := m.Called(ctx, name, args)
	return ret.String(0), ret.Error(1)
}

// MockManifestLoader is a mock implementation of ManifestLoader
type MockManifestLoader struct {
	mock.Mock
}

func (m *MockManifestLoader) Load(ctx context.Context) (*domain.Registry, error) {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.Registry), ret.Error(1)
}

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Records(ctx context.Context) ([]domain.LedgerRecord, error) {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.LedgerRecord), ret.Error(1)
}

func (m *MockLedgerStore) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerRecord, error) {
	ret := m.Called(ctx, entry)
	return ret.Get(0).(domain.LedgerRecord), ret.Error(1)
}

func (m *MockLedgerStore) Close() error {
	return m.Called().Error(0)
}

// recordingSink collects progress events; parallel runs write from several goroutines
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errs   []string
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, message)
}

func (s *recordingSink) stages() []usecase.ProgressStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]usecase.ProgressStage, len(s.events))
	for i, e := range s.events {
		out[i] = e.Stage
	}
	return out
}

func mustSpec(t *testing.T, name string, args []any, deps ...string) *domain.ArtifactSpec {
	t.Helper()
	spec, err := domain.NewArtifactSpec(name, "", args, deps, nil)
	require.NoError(t, err)
	return spec
}

func mustRegistry(t *testing.T, specs ...*domain.ArtifactSpec) *domain.Registry {
	t.Helper()
	registry := domain.NewRegistry()
	for _, spec := range specs {
		require.NoError(t, registry.Register(spec))
	}
	return registry
}

func newTestLedger(t *testing.T, store usecase.LedgerStore) *usecase.Ledger {
	t.Helper()
	if store == nil {
		store = ledger.NewMemoryRepository()
	}
	l, err := usecase.NewLedger(store, logging.NewDiscardLogger())
	require.NoError(t, err)
	return l
}
