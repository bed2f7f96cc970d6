package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trebuchet-org/salvo/internal/domain/config"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// ClientFactory builds deploy clients for configured networks. Dry runs
// always get a simulator.
type ClientFactory struct {
	artifacts ArtifactSource
	dryRun    bool
	log       *slog.Logger

	mu     sync.Mutex
	opened []*EVMDeployer
}

// NewClientFactory creates a factory; the cleanup closes every RPC connection it opened
func NewClientFactory(cfg *config.RuntimeConfig, artifacts ArtifactSource, log *slog.Logger) (*ClientFactory, func()) {
	f := &ClientFactory{
		artifacts: artifacts,
		dryRun:    cfg.DryRun,
		log:       log,
	}
	return f, f.close
}

// ClientFor returns a client for network
func (f *ClientFactory) ClientFor(ctx context.Context, network *config.Network) (usecase.DeployClient, error) {
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	if f.dryRun || network.Kind == config.NetworkKindSimulated {
		return NewSimulator(network, f.log), nil
	}

	switch network.Kind {
	case config.NetworkKindEVM:
		d, err := DialEVM(ctx, network, f.artifacts, f.log)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", network.Name, err)
		}
		f.mu.Lock()
		f.opened = append(f.opened, d)
		f.mu.Unlock()
		return d, nil
	default:
		return nil, fmt.Errorf("network %s: unknown kind %q", network.Name, network.Kind)
	}
}

func (f *ClientFactory) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.opened {
		d.Close()
	}
	f.opened = nil
}
