package config

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

const defaultDeployerKeyEnv = "DEPLOYER_PRIVATE_KEY"

// builtinNetworks are available without any salvo.toml entry and can be
// overridden by one with the same name
func builtinNetworks() map[string]*config.Network {
	return map[string]*config.Network{
		"local": {
			Name:    "local",
			Kind:    config.NetworkKindSimulated,
			ChainID: 31337,
		},
		"anvil": {
			Name:           "anvil",
			Kind:           config.NetworkKindEVM,
			ChainID:        31337,
			RPCURL:         "http://localhost:8545",
			DeployerKeyEnv: defaultDeployerKeyEnv,
		},
	}
}

// buildNetworks merges configured networks over the built-in ones
func buildNetworks(project *config.ProjectFile) (map[string]*config.Network, error) {
	networks := builtinNetworks()
	if project == nil {
		return networks, nil
	}

	for name, section := range project.Networks {
		kind := config.NetworkKind(strings.ToLower(section.Kind))
		if kind == "" {
			kind = config.NetworkKindEVM
		}

		network := &config.Network{
			Name:           name,
			Kind:           kind,
			ChainID:        section.ChainID,
			RPCURL:         section.RPCURL,
			DeployerKeyEnv: section.DeployerKeyEnv,
			Confirm:        section.Confirm,
			FailArtifacts:  section.FailArtifacts,
		}

		switch kind {
		case config.NetworkKindEVM:
			if network.RPCURL == "" {
				return nil, fmt.Errorf("network '%s': rpc_url is required", name)
			}
			if network.DeployerKeyEnv == "" {
				network.DeployerKeyEnv = defaultDeployerKeyEnv
			}
		case config.NetworkKindSimulated:
		default:
			return nil, fmt.Errorf("network '%s': unknown kind '%s' (valid: evm, simulated)", name, section.Kind)
		}

		networks[name] = network
	}

	return networks, nil
}

// NetworkResolver resolves network names against the runtime configuration
type NetworkResolver struct {
	networks map[string]*config.Network
}

// NewNetworkResolver creates a NetworkResolver for Wire dependency injection
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return &NetworkResolver{networks: cfg.Networks}
}

// GetNetworks returns the configured network names, sorted
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.networks)
	slices.Sort(names)
	return names
}

// ResolveNetwork returns the configuration for name
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	network, ok := r.networks[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' is not configured (available: %s)",
			name, strings.Join(r.GetNetworks(ctx), ", "))
	}
	return network, nil
}
