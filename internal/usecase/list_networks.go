package usecase

import (
	"context"

	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents one configured network
type NetworkStatus struct {
	Name    string
	Kind    config.NetworkKind
	ChainID uint64
	RPCURL  string
	Confirm bool
	Error   error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	resolver NetworkResolver
	cfg      *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		cfg:      cfg,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{Name: name}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.Kind = info.Kind
			status.ChainID = info.ChainID
			status.RPCURL = info.RPCURL
			status.Confirm = info.Confirm
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.cfg.NetworkName,
	}, nil
}
