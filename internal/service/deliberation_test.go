package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
	"github.com/psyche-works/psyche/internal/embedding"
	"github.com/psyche-works/psyche/internal/llm"
)

type turnFixture struct {
	svc      *DeliberationService
	engine   *belief.Store
	tracker  *belief.Tracker
	llm      *llm.MockClient
	memories *mockMemoryRepo
	tensions *mockTensionRepo
	debates  *mockDebateRepo
}

func setupTurn(t *testing.T) *turnFixture {
	t.Helper()

	engine := belief.NewStore()
	_, err := engine.CreateCore("Honesty", domain.DomainEthics, "truth builds trust", 7)
	require.NoError(t, err)
	_, err = engine.CreateCore("Care", domain.DomainEthics, "kindness matters", 6)
	require.NoError(t, err)

	f := &turnFixture{
		engine:   engine,
		tracker:  belief.NewTracker(),
		llm:      llm.NewMockClient(),
		memories: &mockMemoryRepo{},
		tensions: &mockTensionRepo{},
		debates:  &mockDebateRepo{},
	}
	memSvc := NewMemoryService(f.memories, embedding.NewMockClient(), zap.NewNop())
	f.svc = NewDeliberationService(engine, f.tracker, f.tensions, f.debates, memSvc, f.llm, zap.NewNop())
	return f
}

func TestHandleTurn_AppliesUpdatesTracksTensionsPersists(t *testing.T) {
	f := setupTurn(t)
	f.llm.DeliberateResponse = &domain.Deliberation{
		Statements: []domain.RoleStatement{
			{Role: domain.RoleAdvocate, Statement: "say it plainly"},
			{Role: domain.RoleSkeptic, Statement: "is plainness unkind here"},
		},
		Synthesis:  "be honest, gently",
		WinnerRole: domain.RoleHarmonizer,
		Updates: []domain.BeliefUpdate{
			{Stance: "honesty", RevisionType: domain.RevisionStrengthen, Reason: "honesty served the exchange"},
		},
		Tensions: []domain.TensionProposal{
			{Belief1: "Honesty", Belief2: "Care", Description: "blunt truth vs sparing feelings"},
		},
		Insight: "directness and warmth are not opposites",
	}

	result, err := f.svc.HandleTurn(context.Background(), "should I tell my friend the truth?")
	require.NoError(t, err)

	require.Len(t, result.Applied, 1)
	assert.Equal(t, "Honesty", result.Applied[0].Stance)
	assert.Equal(t, 8, result.Applied[0].Weight)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "be honest, gently", result.Synthesis)
	assert.Equal(t, domain.RoleHarmonizer, result.WinnerRole)

	require.Len(t, result.Tensions, 1)
	assert.Equal(t, 1, result.Tensions[0].EncounterCount)
	require.Len(t, f.tensions.saved, 1)
	assert.Equal(t, result.Tensions[0].ID, f.tensions.saved[0].ID)

	require.Len(t, f.debates.debates, 1)
	assert.Equal(t, result.DebateID, f.debates.debates[0].ID)
	assert.Equal(t, "should I tell my friend the truth?", f.debates.debates[0].UserMessage)

	// insight + belief shift + new tension
	require.Len(t, f.memories.entries, 3)
	assert.Equal(t, domain.CategoryInsight, f.memories.entries[0].Category)
	assert.Equal(t, domain.CategoryBeliefShift, f.memories.entries[1].Category)
	assert.Contains(t, f.memories.entries[1].Content, "Honesty now at weight 8")
	assert.Equal(t, domain.CategoryTension, f.memories.entries[2].Category)
}

func TestHandleTurn_ValidatesMessage(t *testing.T) {
	f := setupTurn(t)

	_, err := f.svc.HandleTurn(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, belief.ErrValidation)
	assert.Empty(t, f.llm.DeliberateCalls)
}

func TestHandleTurn_LLMErrorPropagates(t *testing.T) {
	f := setupTurn(t)
	f.llm.DeliberateError = errors.New("provider down")

	_, err := f.svc.HandleTurn(context.Background(), "hello")
	require.Error(t, err)
	assert.Len(t, f.debates.debates, 0)
}

func TestHandleTurn_RecurringTensionNotMemorizedTwice(t *testing.T) {
	f := setupTurn(t)
	f.llm.DeliberateResponse = &domain.Deliberation{
		Synthesis: "same pull again",
		Tensions: []domain.TensionProposal{
			{Belief1: "Care", Belief2: "Honesty", Description: "recurring pull"},
		},
	}

	_, err := f.svc.HandleTurn(context.Background(), "first")
	require.NoError(t, err)
	result, err := f.svc.HandleTurn(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, result.Tensions, 1)
	assert.Equal(t, 2, result.Tensions[0].EncounterCount)

	tensionMemories := 0
	for _, e := range f.memories.entries {
		if e.Category == domain.CategoryTension {
			tensionMemories++
		}
	}
	assert.Equal(t, 1, tensionMemories)
}

func TestHandleTurn_StorageFailureDoesNotFailTurn(t *testing.T) {
	f := setupTurn(t)
	f.debates.createErr = errors.New("pg down")
	f.memories.createErr = errors.New("pg down")
	f.llm.DeliberateResponse = &domain.Deliberation{
		Synthesis: "still answered",
		Insight:   "worth keeping",
	}

	result, err := f.svc.HandleTurn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "still answered", result.Synthesis)
}

func TestHandleTurn_BeliefContextIncludesSnapshotAndOpenTensions(t *testing.T) {
	f := setupTurn(t)
	_, err := f.tracker.FindOrCreate("Honesty", "Care", "standing pull")
	require.NoError(t, err)

	_, err = f.svc.HandleTurn(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, f.llm.DeliberateCalls, 1)
	ctx := f.llm.DeliberateCalls[0].BeliefContext
	assert.Contains(t, ctx, `"Honesty"`)
	assert.Contains(t, ctx, `"Care"`)
	assert.Contains(t, ctx, "Open tensions:")
	assert.Contains(t, ctx, "standing pull")
}
