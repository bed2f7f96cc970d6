package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentPlanBatches(t *testing.T) {
	a := mustSpec(t, "A", nil)
	b := mustSpec(t, "B", nil)
	c := mustSpec(t, "C", []string{"A"})
	d := mustSpec(t, "D", []string{"B", "C"})
	e := mustSpec(t, "E", []string{"A"})

	plan := &DeploymentPlan{Steps: []*ArtifactSpec{a, b, c, d, e}}
	waves := plan.Batches()

	require.Len(t, waves, 3)
	assert.Equal(t, []*ArtifactSpec{a, b}, waves[0])
	assert.Equal(t, []*ArtifactSpec{c, e}, waves[1])
	assert.Equal(t, []*ArtifactSpec{d}, waves[2])

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, plan.Names())
	assert.Equal(t, 3, plan.Position("D"))
	assert.Equal(t, -1, plan.Position("X"))
}

func TestPlanFilterString(t *testing.T) {
	assert.Equal(t, "all artifacts", PlanFilter{}.String())
	assert.Equal(t, "names=A,B tags=core", PlanFilter{Names: []string{"A", "B"}, Tags: []string{"core"}}.String())
}

func TestRunReport(t *testing.T) {
	report := &RunReport{
		Outcomes: []*ArtifactOutcome{
			{Artifact: "A", Status: OutcomeDeployed, Reused: true},
			{Artifact: "B", Status: OutcomeFailed, Reason: "boom"},
			{Artifact: "C", Status: OutcomeSkipped},
		},
	}

	assert.False(t, report.Success())
	assert.Equal(t, 1, report.Count(OutcomeDeployed))
	assert.Equal(t, 1, report.Count(OutcomeFailed))
	assert.Equal(t, 1, report.Reused())

	b, ok := report.Outcome("B")
	require.True(t, ok)
	assert.Equal(t, "boom", b.Reason)

	report.Outcomes = report.Outcomes[:1]
	assert.True(t, report.Success())

	report.Cancelled = true
	assert.False(t, report.Success())
}

func TestReplayRecords(t *testing.T) {
	records := []LedgerRecord{
		{Seq: 1, LedgerEntry: LedgerEntry{Artifact: "A", Network: "local", Status: LedgerPending}},
		{Seq: 2, LedgerEntry: LedgerEntry{Artifact: "A", Network: "local", Status: LedgerDeployed, Address: "0x1"}},
		{Seq: 3, LedgerEntry: LedgerEntry{Artifact: "A", Network: "sepolia", Status: LedgerFailed}},
	}

	state := ReplayRecords(records)
	require.Len(t, state, 2)
	assert.Equal(t, LedgerDeployed, state[LedgerKey{"A", "local"}].Status)
	assert.Equal(t, "0x1", state[LedgerKey{"A", "local"}].Address)
	assert.Equal(t, LedgerFailed, state[LedgerKey{"A", "sepolia"}].Status)
}
