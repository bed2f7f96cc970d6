package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

func writeProjectFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0644))
}

func newTestViper(projectRoot string) *viper.Viper {
	v := SetupViper(projectRoot, nil)
	v.Set("project_root", projectRoot)
	return v
}

func TestProvider(t *testing.T) {
	t.Run("defaults without salvo.toml", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Provider(newTestViper(dir))
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".salvo"), cfg.DataDir)
		assert.Equal(t, filepath.Join(dir, "salvo.yaml"), cfg.ManifestPath)
		assert.Equal(t, "local", cfg.NetworkName)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, config.NetworkKindSimulated, cfg.Network.Kind)
		assert.Equal(t, config.LedgerBackendFile, cfg.Ledger.Backend)
		assert.Equal(t, filepath.Join(dir, ".salvo", "ledger.jsonl"), cfg.Ledger.Path)
		assert.Equal(t, 2*time.Minute, cfg.Run.CallTimeout)
		assert.Equal(t, 1, cfg.Run.Parallelism)
		assert.Equal(t, 10*time.Minute, cfg.Timeout)
		assert.Empty(t, cfg.ConfigSource)
	})

	t.Run("salvo.toml settings", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("SALVO_TEST_RPC", "https://rpc.example.org")
		writeProjectFile(t, dir, `
manifest = "deploy/artifacts.yaml"

[run]
stop_on_first_failure = true
max_retries = 2
call_timeout = "30s"
parallel = 4

[ledger]
backend = "sqlite"

[networks.sepolia]
rpc_url = "${SALVO_TEST_RPC}"
chain_id = 11155111
confirm = true

[networks.rehearsal]
kind = "simulated"
fail_artifacts = ["Vault"]
`)

		v := newTestViper(dir)
		v.Set("network", "sepolia")
		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "deploy", "artifacts.yaml"), cfg.ManifestPath)
		assert.True(t, cfg.Run.StopOnFirstFailure)
		assert.Equal(t, 2, cfg.Run.MaxRetries)
		assert.Equal(t, 30*time.Second, cfg.Run.CallTimeout)
		assert.Equal(t, 4, cfg.Run.Parallelism)
		assert.Equal(t, config.LedgerBackendSQLite, cfg.Ledger.Backend)
		assert.Equal(t, filepath.Join(dir, ".salvo", "ledger.db"), cfg.Ledger.Path)

		require.NotNil(t, cfg.Network)
		assert.Equal(t, "https://rpc.example.org", cfg.Network.RPCURL)
		assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
		assert.Equal(t, "DEPLOYER_PRIVATE_KEY", cfg.Network.DeployerKeyEnv)
		assert.True(t, cfg.Network.Confirm)

		rehearsal := cfg.Networks["rehearsal"]
		require.NotNil(t, rehearsal)
		assert.Equal(t, config.NetworkKindSimulated, rehearsal.Kind)
		assert.Equal(t, []string{"Vault"}, rehearsal.FailArtifacts)
	})

	t.Run("overrides win over salvo.toml", func(t *testing.T) {
		dir := t.TempDir()
		writeProjectFile(t, dir, `
[run]
max_retries = 2
`)
		v := newTestViper(dir)
		v.Set("max-retries", 5)
		v.Set("parallel", 0)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Run.MaxRetries)
		assert.Equal(t, 1, cfg.Run.Parallelism)
	})

	t.Run("dry run uses the memory ledger", func(t *testing.T) {
		dir := t.TempDir()
		v := newTestViper(dir)
		v.Set("dry-run", true)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, config.LedgerBackendMemory, cfg.Ledger.Backend)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			errMsg  string
		}{
			{
				name:    "evm network without rpc",
				content: "[networks.mainnet]\nchain_id = 1\n",
				errMsg:  "rpc_url is required",
			},
			{
				name:    "unknown network kind",
				content: "[networks.x]\nkind = \"solana\"\n",
				errMsg:  "unknown kind",
			},
			{
				name:    "unknown ledger backend",
				content: "[ledger]\nbackend = \"redis\"\n",
				errMsg:  "unknown ledger backend",
			},
			{
				name:    "postgres without dsn",
				content: "[ledger]\nbackend = \"postgres\"\n",
				errMsg:  "requires a dsn",
			},
			{
				name:    "bad call timeout",
				content: "[run]\ncall_timeout = \"soon\"\n",
				errMsg:  "invalid [run] call_timeout",
			},
			{
				name:    "unknown key",
				content: "colour = \"blue\"\n",
				errMsg:  "unknown keys",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				writeProjectFile(t, dir, tt.content)

				_, err := Provider(newTestViper(dir))
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			})
		}
	})
}

func TestNetworkResolver(t *testing.T) {
	networks, err := buildNetworks(nil)
	require.NoError(t, err)
	resolver := NewNetworkResolver(&config.RuntimeConfig{Networks: networks})
	ctx := context.Background()

	assert.Equal(t, []string{"anvil", "local"}, resolver.GetNetworks(ctx))

	anvil, err := resolver.ResolveNetwork(ctx, "anvil")
	require.NoError(t, err)
	assert.Equal(t, config.NetworkKindEVM, anvil.Kind)
	assert.Equal(t, "http://localhost:8545", anvil.RPCURL)

	_, err = resolver.ResolveNetwork(ctx, "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: anvil, local")
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte("artifacts: []\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(nested))

	root, err := FindProjectRoot()
	require.NoError(t, err)

	// macOS temp dirs resolve through /private
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
