package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
	"github.com/psyche-works/psyche/internal/embedding"
)

func TestSelfReview_AggregatesEngineDebatesAndMemories(t *testing.T) {
	engine := belief.NewStore()
	_, err := engine.CreateCore("Honesty", domain.DomainEthics, "truth builds trust", 8)
	require.NoError(t, err)
	_, err = engine.CreateCore("Curiosity", domain.DomainKnowledge, "questions open doors", 6)
	require.NoError(t, err)

	tracker := belief.NewTracker()
	_, err = tracker.FindOrCreate("Honesty", "Curiosity", "probing vs privacy")
	require.NoError(t, err)

	debates := &mockDebateRepo{}
	for _, winner := range []domain.Role{
		domain.RoleAdvocate, domain.RoleAdvocate, domain.RoleSkeptic, domain.RoleHarmonizer,
	} {
		err := debates.Create(context.Background(), &domain.DebateRecord{
			UserMessage: "turn",
			Synthesis:   "answer",
			WinnerRole:  winner,
		})
		require.NoError(t, err)
	}

	memRepo := &mockMemoryRepo{}
	memSvc := NewMemoryService(memRepo, embedding.NewMockClient(), zap.NewNop())
	_, err = memSvc.Record(context.Background(), domain.CategoryBeliefShift, "shift", nil)
	require.NoError(t, err)
	_, err = memSvc.Record(context.Background(), domain.CategoryInsight, "insight", nil)
	require.NoError(t, err)

	svc := NewReviewService(engine, tracker, debates, memSvc, zap.NewNop())
	report, err := svc.SelfReview(context.Background())
	require.NoError(t, err)

	snapshot := engine.Snapshot()
	assert.Equal(t, 2, report.BeliefCount)
	assert.Equal(t, belief.CoherenceScore(snapshot), report.CoherenceScore)
	assert.Equal(t, belief.DomainBalance(snapshot), report.DomainBalance)
	assert.Equal(t, 1, report.OpenTensions)
	assert.Equal(t, 1.0, report.TensionRate)
	assert.Equal(t, 0.5, report.RevisionRate)

	require.Len(t, report.RoleDominance, 4)
	assert.Equal(t, 0.5, report.RoleDominance[domain.RoleAdvocate])
	assert.Equal(t, 0.25, report.RoleDominance[domain.RoleSkeptic])
	assert.Equal(t, 0.25, report.RoleDominance[domain.RoleHarmonizer])
	assert.Equal(t, 0.0, report.RoleDominance[domain.RoleVisionary])
}

func TestSelfReview_EmptyDebatesYieldZeroDominance(t *testing.T) {
	engine := belief.NewStore()
	memSvc := NewMemoryService(&mockMemoryRepo{}, embedding.NewMockClient(), zap.NewNop())
	svc := NewReviewService(engine, belief.NewTracker(), &mockDebateRepo{}, memSvc, zap.NewNop())

	report, err := svc.SelfReview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.BeliefCount)
	for _, role := range domain.Roles {
		assert.Equal(t, 0.0, report.RoleDominance[role])
	}
	assert.Equal(t, 0.0, report.RevisionRate)
	assert.Equal(t, 0.0, report.TensionRate)
}
