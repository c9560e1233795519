package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
)

const defaultRecallTopK = 5

// MemoryService owns the insight log: what the congress decided was worth
// remembering, recallable later by vector similarity.
type MemoryService struct {
	repo     domain.MemoryRepository
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewMemoryService(repo domain.MemoryRepository, embedder domain.EmbeddingClient, logger *zap.Logger) *MemoryService {
	return &MemoryService{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
	}
}

// Record validates and persists one entry. Embedding failures degrade to an
// entry without a vector rather than losing the content.
func (s *MemoryService) Record(ctx context.Context, category domain.MemoryCategory, content string, relatedStances []string) (*domain.MemoryEntry, error) {
	if !domain.ValidMemoryCategory(string(category)) {
		return nil, fmt.Errorf("%w: invalid memory category %q", belief.ErrValidation, category)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: memory content is required", belief.ErrValidation)
	}

	entry := &domain.MemoryEntry{
		Category:       category,
		Content:        content,
		RelatedStances: relatedStances,
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		s.logger.Warn("embedding failed, storing memory without vector",
			zap.String("category", string(category)),
			zap.Error(err))
	} else {
		entry.Embedding = embedding
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}

	s.logger.Info("memory recorded",
		zap.String("id", entry.ID.String()),
		zap.String("category", string(category)))
	return entry, nil
}

// Recall embeds the query and returns the most similar entries.
func (s *MemoryService) Recall(ctx context.Context, query string, topK int, category *domain.MemoryCategory) ([]domain.MemoryWithScore, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: recall query is required", belief.ErrValidation)
	}
	if category != nil && !domain.ValidMemoryCategory(string(*category)) {
		return nil, fmt.Errorf("%w: invalid memory category %q", belief.ErrValidation, *category)
	}
	if topK <= 0 {
		topK = defaultRecallTopK
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed recall query: %w", err)
	}

	results, err := s.repo.Recall(ctx, embedding, domain.RecallOpts{TopK: topK, Category: category})
	if err != nil {
		return nil, fmt.Errorf("recall memories: %w", err)
	}
	return results, nil
}

func (s *MemoryService) Get(ctx context.Context, id uuid.UUID) (*domain.MemoryEntry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MemoryService) ListRecent(ctx context.Context, limit int) ([]domain.MemoryEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}

// RevisionRate is the fraction of all entries in belief-related categories
// (belief_shift, tension). It is the memory-side signal the self-review
// reads: a high rate means the belief network is churning.
func (s *MemoryService) RevisionRate(ctx context.Context) (float64, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return 0, fmt.Errorf("count memories by category: %w", err)
	}

	total := 0
	related := 0
	for category, n := range counts {
		total += n
		if category.BeliefRelated() {
			related += n
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(related) / float64(total), nil
}
