package blockchain

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/salvo/internal/domain/config"
	"github.com/trebuchet-org/salvo/internal/logging"
)

func TestSimulator(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulator(&config.Network{Name: "rehearsal", FailArtifacts: []string{"Vault"}}, logging.NewDiscardLogger())

	first, err := sim.Deploy(ctx, "MyToken", nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress(SimulatedDeployer, 0).Hex(), first)
	// well-known first CREATE address of the anvil dev account
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", first)

	second, err := sim.Deploy(ctx, "Registry", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = sim.Deploy(ctx, "Vault", nil)
	assert.ErrorContains(t, err, "simulated failure")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sim.Deploy(cancelled, "MyToken", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientFactory(t *testing.T) {
	ctx := context.Background()
	log := logging.NewDiscardLogger()

	t.Run("simulated network", func(t *testing.T) {
		f, cleanup := NewClientFactory(&config.RuntimeConfig{}, nil, log)
		defer cleanup()

		client, err := f.ClientFor(ctx, &config.Network{Name: "local", Kind: config.NetworkKindSimulated})
		require.NoError(t, err)
		assert.IsType(t, &Simulator{}, client)
	})

	t.Run("dry run simulates evm networks", func(t *testing.T) {
		f, cleanup := NewClientFactory(&config.RuntimeConfig{DryRun: true}, nil, log)
		defer cleanup()

		client, err := f.ClientFor(ctx, &config.Network{Name: "anvil", Kind: config.NetworkKindEVM, RPCURL: "http://localhost:8545"})
		require.NoError(t, err)
		assert.IsType(t, &Simulator{}, client)
	})

	t.Run("evm network without key", func(t *testing.T) {
		t.Setenv("SALVO_TEST_MISSING_KEY", "")
		f, cleanup := NewClientFactory(&config.RuntimeConfig{}, nil, log)
		defer cleanup()

		_, err := f.ClientFor(ctx, &config.Network{Name: "anvil", Kind: config.NetworkKindEVM, RPCURL: "http://localhost:8545", DeployerKeyEnv: "SALVO_TEST_MISSING_KEY"})
		assert.ErrorContains(t, err, "deployer key not set")
	})

	t.Run("no network", func(t *testing.T) {
		f, cleanup := NewClientFactory(&config.RuntimeConfig{}, nil, log)
		defer cleanup()
		_, err := f.ClientFor(ctx, nil)
		assert.Error(t, err)
	})
}
