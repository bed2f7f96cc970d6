package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

func spec(t *testing.T, name, contract string, deps ...string) *domain.ArtifactSpec {
	t.Helper()
	s, err := domain.NewArtifactSpec(name, contract, []any{"x"}, deps, nil)
	require.NoError(t, err)
	return s
}

func TestRunRenderer(t *testing.T) {
	token := spec(t, "MyToken", "")
	vault := spec(t, "Vault", "TokenVault", "MyToken")
	plan := &domain.DeploymentPlan{Steps: []*domain.ArtifactSpec{token, vault}}

	t.Run("plan", func(t *testing.T) {
		var buf bytes.Buffer
		NewRunRenderer(&buf, false).RenderPlan("local", plan)

		out := buf.String()
		assert.Contains(t, out, "Deploying all artifacts to local")
		assert.Contains(t, out, "1. MyToken\n")
		assert.Contains(t, out, "2. Vault → TokenVault (depends on: MyToken)")
	})

	t.Run("empty plan", func(t *testing.T) {
		var buf bytes.Buffer
		NewRunRenderer(&buf, false).RenderPlan("local", &domain.DeploymentPlan{})
		assert.Contains(t, buf.String(), "Nothing to deploy")
	})

	t.Run("outcome lines", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunRenderer(&buf, false)
		r.RenderOutcome(1, 2, domain.ArtifactOutcome{Artifact: "MyToken", Status: domain.OutcomeDeployed, Address: "0xabc", Reused: true})
		r.RenderOutcome(2, 2, domain.ArtifactOutcome{Artifact: "Vault", Status: domain.OutcomeFailed, Reason: "out of gas"})

		assert.Equal(t,
			"[1/2] ✓ MyToken at 0xabc (already deployed)\n[2/2] ✗ Vault: out of gas\n",
			buf.String())
	})

	t.Run("report", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		report := &domain.RunReport{
			RunID:   "run-1",
			Network: "local",
			Plan:    plan,
			Outcomes: []*domain.ArtifactOutcome{
				{Artifact: "MyToken", Status: domain.OutcomeFailed, Reason: "boom", Attempts: 1},
				{Artifact: "Vault", Status: domain.OutcomeSkipped, Reason: "dependency MyToken not deployed"},
			},
			StartedAt:  start,
			FinishedAt: start.Add(1500 * time.Millisecond),
		}

		var buf bytes.Buffer
		require.NoError(t, NewRunRenderer(&buf, false).RenderReport(report))

		out := stripAnsiCodes(buf.String())
		assert.Contains(t, out, "ARTIFACT")
		assert.Contains(t, out, "Failed")
		assert.Contains(t, out, "dependency MyToken not deployed")
		assert.Contains(t, out, "0 deployed (0 already deployed), 1 failed, 1 skipped in 1.5s")
		assert.Contains(t, out, "run run-1")
	})
}

func TestPlanRenderer(t *testing.T) {
	token := spec(t, "MyToken", "")
	vault := spec(t, "Vault", "TokenVault", "MyToken")

	result := &usecase.ShowPlanResult{
		Network: "local",
		Plan:    &domain.DeploymentPlan{Steps: []*domain.ArtifactSpec{token, vault}},
		Steps: []usecase.PlannedStep{
			{Spec: token, State: usecase.StepDeployed, Entry: &domain.LedgerEntry{Address: "0xabc"}},
			{Spec: vault, State: usecase.StepNew, Wave: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPlanRenderer(&buf, false).RenderPlan(result))

	out := stripAnsiCodes(buf.String())
	assert.Contains(t, out, "2 artifact(s), all artifacts")
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "TokenVault")
	assert.Contains(t, out, "1 to deploy, 1 already deployed")
}

func TestStatusRenderer(t *testing.T) {
	result := &usecase.ShowStatusResult{
		Artifacts: []usecase.ArtifactStatus{
			{Entry: &domain.LedgerEntry{Artifact: "MyToken", Network: "local", Status: domain.LedgerDeployed, Address: "0xabc"}},
			{Entry: &domain.LedgerEntry{Artifact: "Old", Network: "local", Status: domain.LedgerDeployed, Address: "0xdef"}, Orphaned: true},
			{Entry: &domain.LedgerEntry{Artifact: "MyToken", Network: "sepolia", Status: domain.LedgerFailed, Reason: "reverted"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewStatusRenderer(&buf, false).RenderStatus(result))

	out := stripAnsiCodes(buf.String())
	assert.Contains(t, out, " local ")
	assert.Contains(t, out, " sepolia ")
	assert.Contains(t, out, "not in manifest")
	assert.Contains(t, out, "reverted")

	buf.Reset()
	require.NoError(t, NewStatusRenderer(&buf, false).RenderStatus(&usecase.ShowStatusResult{Network: "local"}))
	assert.Equal(t, "No ledger entries for network local\n", buf.String())
}

func TestNetworksRenderer(t *testing.T) {
	result := &usecase.ListNetworksResult{
		Current: "local",
		Networks: []usecase.NetworkStatus{
			{Name: "local", Kind: "simulated", ChainID: 31337},
			{Name: "sepolia", Kind: "evm", ChainID: 11155111, Confirm: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewNetworksRenderer(&buf, false).RenderNetworksList(result))

	out := buf.String()
	assert.Contains(t, out, "* ✅ local - simulated, Chain ID: 31337\n")
	assert.Contains(t, out, "  ✅ sepolia - evm, Chain ID: 11155111 (confirm)\n")
}
