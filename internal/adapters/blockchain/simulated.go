package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// SimulatedDeployer is the first anvil dev account; simulated addresses are
// derived from it the same way a fresh local chain would assign them
var SimulatedDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// Simulator deploys nothing. It hands out the contract addresses a fresh
// chain would, and fails the artifacts the network lists in fail_artifacts.
type Simulator struct {
	network *config.Network
	log     *slog.Logger

	mu    sync.Mutex
	nonce uint64
}

// NewSimulator creates a simulator for network
func NewSimulator(network *config.Network, log *slog.Logger) *Simulator {
	return &Simulator{
		network: network,
		log:     log.With("component", "Simulator", "network", network.Name),
	}
}

// Deploy returns the next CREATE address of the simulated deployer
func (s *Simulator) Deploy(ctx context.Context, name string, args []any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if slices.Contains(s.network.FailArtifacts, name) {
		return "", fmt.Errorf("simulated failure for %s", name)
	}

	s.mu.Lock()
	nonce := s.nonce
	s.nonce++
	s.mu.Unlock()

	address := crypto.CreateAddress(SimulatedDeployer, nonce)
	s.log.Debug("simulated deployment", "contract", name, "nonce", nonce, "address", address.Hex())
	return address.Hex(), nil
}
