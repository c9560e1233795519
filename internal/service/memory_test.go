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
)

func setupMemory(t *testing.T) (*MemoryService, *mockMemoryRepo, *embedding.MockClient) {
	t.Helper()
	repo := &mockMemoryRepo{}
	embedder := embedding.NewMockClient()
	return NewMemoryService(repo, embedder, zap.NewNop()), repo, embedder
}

func TestMemoryRecord_Validation(t *testing.T) {
	svc, repo, _ := setupMemory(t)

	_, err := svc.Record(context.Background(), "daydream", "content", nil)
	assert.ErrorIs(t, err, belief.ErrValidation)

	_, err = svc.Record(context.Background(), domain.CategoryInsight, "   ", nil)
	assert.ErrorIs(t, err, belief.ErrValidation)

	assert.Empty(t, repo.entries)
}

func TestMemoryRecord_EmbedsAndStores(t *testing.T) {
	svc, repo, embedder := setupMemory(t)

	entry, err := svc.Record(context.Background(), domain.CategoryInsight, "growth needs friction", []string{"Growth"})
	require.NoError(t, err)

	assert.Len(t, entry.Embedding, embedder.Dimensions)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "growth needs friction", repo.entries[0].Content)
	assert.Equal(t, []string{"Growth"}, repo.entries[0].RelatedStances)
}

func TestMemoryRecord_EmbedFailureDegrades(t *testing.T) {
	svc, repo, embedder := setupMemory(t)
	embedder.EmbedErr = errors.New("quota exceeded")

	entry, err := svc.Record(context.Background(), domain.CategoryObservation, "still worth keeping", nil)
	require.NoError(t, err)

	assert.Nil(t, entry.Embedding)
	assert.Len(t, repo.entries, 1)
}

func TestMemoryRecall_DefaultsTopK(t *testing.T) {
	svc, repo, _ := setupMemory(t)

	_, err := svc.Recall(context.Background(), "  ", 0, nil)
	assert.ErrorIs(t, err, belief.ErrValidation)

	_, err = svc.Recall(context.Background(), "friction", 0, nil)
	require.NoError(t, err)
	require.Len(t, repo.recallCalls, 1)
	assert.Equal(t, defaultRecallTopK, repo.recallCalls[0].TopK)
}

func TestMemoryRecall_CategoryFilterPassedThrough(t *testing.T) {
	svc, repo, _ := setupMemory(t)

	category := domain.CategoryTension
	_, err := svc.Recall(context.Background(), "pull", 2, &category)
	require.NoError(t, err)

	require.Len(t, repo.recallCalls, 1)
	require.NotNil(t, repo.recallCalls[0].Category)
	assert.Equal(t, domain.CategoryTension, *repo.recallCalls[0].Category)
	assert.Equal(t, 2, repo.recallCalls[0].TopK)
}

func TestMemoryRevisionRate(t *testing.T) {
	svc, _, _ := setupMemory(t)

	rate, err := svc.RevisionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	for _, c := range []domain.MemoryCategory{
		domain.CategoryInsight,
		domain.CategoryBeliefShift,
		domain.CategoryTension,
		domain.CategoryObservation,
	} {
		_, err := svc.Record(context.Background(), c, "entry", nil)
		require.NoError(t, err)
	}

	rate, err = svc.RevisionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.5, rate)
}
