package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/salvo/internal/adapters/interactive"
	"github.com/trebuchet-org/salvo/internal/domain"
)

const testManifest = `
artifacts:
  - name: MyToken
    args: ["Token", "TKN", 1000000]
    tags: [core]
  - name: Vault
    contract: TokenVault
    deps: [MyToken]
    args: ["0x0000000000000000000000000000000000000001"]
  - name: Oracle
    tags: [periphery]
`

const testProjectFile = `
[networks.flaky]
kind = "simulated"
chain_id = 1337
fail_artifacts = ["TokenVault"]

[networks.guarded]
kind = "simulated"
chain_id = 1
confirm = true
`

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salvo.yaml"), []byte(testManifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salvo.toml"), []byte(testProjectFile), 0644))
	return dir
}

// execute runs the CLI against project and returns stdout
func execute(t *testing.T, project string, args ...string) (string, error) {
	t.Helper()
	rootCmd, closeApp := newRootCmd()
	defer closeApp()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--project-root", project, "--non-interactive"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	t.Run("deploys everything then reuses the ledger", func(t *testing.T) {
		project := newTestProject(t)

		out, err := execute(t, project, "run")
		require.NoError(t, err)
		assert.Contains(t, out, "3 deployed (0 already deployed), 0 failed, 0 skipped")
		assert.FileExists(t, filepath.Join(project, ".salvo", "ledger.jsonl"))

		out, err = execute(t, project, "run")
		require.NoError(t, err)
		assert.Contains(t, out, "3 deployed (3 already deployed)")
	})

	t.Run("failure skips dependents and exits non-zero", func(t *testing.T) {
		project := newTestProject(t)

		out, err := execute(t, project, "run", "Vault", "--network", "flaky")
		assert.ErrorIs(t, err, domain.ErrIncompleteRun)
		assert.Contains(t, out, "simulated failure for TokenVault")
		assert.Contains(t, out, "1 deployed (0 already deployed), 1 failed, 0 skipped")
		assert.NotContains(t, out, "Oracle")
	})

	t.Run("tags select artifacts", func(t *testing.T) {
		project := newTestProject(t)

		out, err := execute(t, project, "run", "-t", "periphery")
		require.NoError(t, err)
		assert.Contains(t, out, "Oracle")
		assert.Contains(t, out, "1 deployed")
	})

	t.Run("unknown artifact is a configuration error", func(t *testing.T) {
		project := newTestProject(t)

		_, err := execute(t, project, "run", "MyTokn")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorContains(t, err, "did you mean: MyToken?")
	})

	t.Run("guarded network needs confirmation", func(t *testing.T) {
		project := newTestProject(t)

		_, err := execute(t, project, "run", "--network", "guarded")
		assert.ErrorIs(t, err, interactive.ErrNonInteractive)

		_, err = execute(t, project, "run", "--network", "guarded", "--yes")
		assert.NoError(t, err)
	})

	t.Run("dry run leaves the ledger untouched", func(t *testing.T) {
		project := newTestProject(t)

		_, err := execute(t, project, "run", "--network", "guarded", "--dry-run")
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(project, ".salvo", "ledger.jsonl"))
	})

	t.Run("unknown network", func(t *testing.T) {
		project := newTestProject(t)

		_, err := execute(t, project, "run", "--network", "nowhere")
		assert.ErrorContains(t, err, "network 'nowhere' is not configured")
	})
}

func TestPlanAndStatusCommands(t *testing.T) {
	project := newTestProject(t)

	out, err := execute(t, project, "plan", "Vault")
	require.NoError(t, err)
	assert.Contains(t, out, "2 to deploy, 0 already deployed")

	_, err = execute(t, project, "run", "MyToken")
	require.NoError(t, err)

	out, err = execute(t, project, "plan", "Vault")
	require.NoError(t, err)
	assert.Contains(t, out, "1 to deploy, 1 already deployed")

	out, err = execute(t, project, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "MyToken")
	assert.Contains(t, out, "Deployed")

	out, err = execute(t, project, "status", "--network", "flaky")
	require.NoError(t, err)
	assert.Equal(t, "No ledger entries for network flaky\n", out)
}

func TestNetworksCommand(t *testing.T) {
	project := newTestProject(t)

	out, err := execute(t, project, "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "* ✅ local - simulated, Chain ID: 31337")
	assert.Contains(t, out, "guarded - simulated, Chain ID: 1 (confirm)")
	assert.Contains(t, out, "flaky")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "salvo version dev")
}
