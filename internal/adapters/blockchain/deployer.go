package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trebuchet-org/salvo/internal/adapters/contracts"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// ArtifactSource provides compiled contracts
type ArtifactSource interface {
	Load(name string) (*contracts.Artifact, error)
}

// Backend is the chain access EVMDeployer needs. *ethclient.Client and the
// go-ethereum simulated backend client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// EVMDeployer deploys contracts to an EVM JSON-RPC endpoint from a single
// deployer key
type EVMDeployer struct {
	network   *config.Network
	artifacts ArtifactSource
	client    Backend
	closer    func()
	key       *ecdsa.PrivateKey
	chainID   *big.Int
	log       *slog.Logger

	// sending is serialized so concurrent deploys get consecutive nonces
	sendMu sync.Mutex
}

// DialEVM connects to the network's RPC endpoint, checks the chain ID and
// loads the deployer key from the configured environment variable
func DialEVM(ctx context.Context, network *config.Network, artifacts ArtifactSource, log *slog.Logger) (*EVMDeployer, error) {
	key, err := loadDeployerKey(network.DeployerKeyEnv)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	d, err := NewEVMDeployer(ctx, network, artifacts, client, key, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	d.closer = client.Close
	return d, nil
}

// NewEVMDeployer checks that backend serves the network's chain and returns a
// deployer sending from key. Close does not close backend.
func NewEVMDeployer(ctx context.Context, network *config.Network, artifacts ArtifactSource, backend Backend, key *ecdsa.PrivateKey, log *slog.Logger) (*EVMDeployer, error) {
	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if network.ChainID != 0 && networkChainID.Uint64() != network.ChainID {
		return nil, fmt.Errorf("chain ID mismatch for %s: expected %d, got %d", network.Name, network.ChainID, networkChainID.Uint64())
	}

	d := &EVMDeployer{
		network:   network,
		artifacts: artifacts,
		client:    backend,
		key:       key,
		chainID:   networkChainID,
		log:       log.With("component", "EVMDeployer", "network", network.Name),
	}
	d.log.Debug("connected", "chain_id", networkChainID, "deployer", d.Deployer().Hex())
	return d, nil
}

func loadDeployerKey(envName string) (*ecdsa.PrivateKey, error) {
	raw := strings.TrimSpace(os.Getenv(envName))
	if raw == "" {
		return nil, fmt.Errorf("deployer key not set: export %s or add it to .env", envName)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer key in %s: %w", envName, err)
	}
	return key, nil
}

// Deployer returns the address deployments are sent from
func (d *EVMDeployer) Deployer() common.Address {
	return crypto.PubkeyToAddress(d.key.PublicKey)
}

// Deploy sends the creation transaction for contract name and waits until
// code is present at the new address
func (d *EVMDeployer) Deploy(ctx context.Context, name string, args []any) (string, error) {
	artifact, err := d.artifacts.Load(name)
	if err != nil {
		return "", err
	}

	params, err := PackArgs(artifact.ABI.Constructor.Inputs, args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return "", fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	d.sendMu.Lock()
	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, d.client, params...)
	d.sendMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to send deployment: %w", err)
	}
	d.log.Info("deployment sent", "contract", name, "tx", tx.Hash().Hex(), "address", address.Hex())

	deployed, err := bind.WaitDeployed(ctx, d.client, tx)
	if err != nil {
		return "", fmt.Errorf("deployment %s not confirmed: %w", tx.Hash().Hex(), err)
	}
	return deployed.Hex(), nil
}

// Close closes the RPC connection opened by DialEVM
func (d *EVMDeployer) Close() {
	if d.closer != nil {
		d.closer()
	}
}
