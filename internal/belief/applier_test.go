package belief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/domain"
)

func setupApplier(t *testing.T) (*Applier, *Store) {
	t.Helper()
	s := NewStore()
	_, err := s.CreateCore("Authenticity", domain.DomainSelf, "being genuine matters", 8)
	require.NoError(t, err)
	_, err = s.CreateCore("Growth", domain.DomainSelf, "change is possible", 6)
	require.NoError(t, err)
	return NewApplier(s, zap.NewNop()), s
}

func TestApplier_UnknownStanceSkippedStoreUntouched(t *testing.T) {
	a, s := setupApplier(t)
	before := s.Snapshot()

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Nonexistent", RevisionType: domain.RevisionStrengthen, Reason: "x"},
	})

	assert.Empty(t, result.Applied)
	assert.Equal(t, []string{"Nonexistent"}, result.Skipped)
	assert.Equal(t, before, s.Snapshot(), "skipped batch must leave the node set unchanged")
}

func TestApplier_DerivesDeltaFromRevisionType(t *testing.T) {
	a, s := setupApplier(t)

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "authenticity", RevisionType: domain.RevisionStrengthen, Reason: "confirmed"},
		{Stance: "GROWTH", RevisionType: domain.RevisionWeaken, Reason: "setback"},
	})

	require.Len(t, result.Applied, 2)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 9, result.Applied[0].Weight)
	assert.Equal(t, 5, result.Applied[1].Weight)

	// Each accepted update produced exactly one revision.
	for _, n := range result.Applied {
		got, err := s.GetByID(n.ID)
		require.NoError(t, err)
		assert.Len(t, got.RevisionHistory, 1)
	}
}

func TestApplier_TargetWeightWinsAndClamps(t *testing.T) {
	a, s := setupApplier(t)

	target := 99
	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Authenticity", RevisionType: domain.RevisionWeaken, Reason: "explicit target", TargetWeight: &target},
	})

	require.Len(t, result.Applied, 1)
	assert.Equal(t, domain.MaxWeight, result.Applied[0].Weight)

	n, err := s.GetByStance("Authenticity")
	require.NoError(t, err)
	assert.Equal(t, domain.RevisionStrengthen, n.RevisionHistory[0].Type, "inferred type follows actual direction, not the proposed one")
}

func TestApplier_ChallengeAndReviseLeaveWeightAlone(t *testing.T) {
	a, s := setupApplier(t)

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Authenticity", RevisionType: domain.RevisionChallenge, Reason: "doubt"},
		{Stance: "Growth", RevisionType: domain.RevisionRevise, Reason: "reframe"},
	})

	require.Len(t, result.Applied, 2)
	assert.Equal(t, 8, result.Applied[0].Weight)
	assert.Equal(t, 6, result.Applied[1].Weight)

	// Still audited: one revision each.
	for _, stance := range []string{"Authenticity", "Growth"} {
		n, err := s.GetByStance(stance)
		require.NoError(t, err)
		assert.Len(t, n.RevisionHistory, 1)
	}
}

func TestApplier_MissingReasonSkipped(t *testing.T) {
	a, s := setupApplier(t)

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Authenticity", RevisionType: domain.RevisionStrengthen, Reason: "  "},
	})

	assert.Empty(t, result.Applied)
	assert.Equal(t, []string{"Authenticity"}, result.Skipped)

	n, err := s.GetByStance("Authenticity")
	require.NoError(t, err)
	assert.Empty(t, n.RevisionHistory)
}

func TestApplier_BatchIsolationAndOrder(t *testing.T) {
	a, _ := setupApplier(t)

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Growth", RevisionType: domain.RevisionStrengthen, Reason: "first"},
		{Stance: "Ghost", RevisionType: domain.RevisionStrengthen, Reason: "second"},
		{Stance: "Growth", RevisionType: domain.RevisionStrengthen, Reason: "third"},
	})

	require.Len(t, result.Applied, 2)
	assert.Equal(t, []string{"Ghost"}, result.Skipped)
	// In-order application: 6 -> 7 -> 8.
	assert.Equal(t, 7, result.Applied[0].Weight)
	assert.Equal(t, 8, result.Applied[1].Weight)
}

func TestApplier_ReportsCoherenceAfterBatch(t *testing.T) {
	a, s := setupApplier(t)

	result := a.Apply([]domain.BeliefUpdate{
		{Stance: "Authenticity", RevisionType: domain.RevisionWeaken, Reason: "counterexample"},
	})

	assert.Equal(t, CoherenceScore(s.Snapshot()), result.CoherenceScore)
}
