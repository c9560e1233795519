package domain

import (
	"context"

	"github.com/google/uuid"
)

// BeliefRepository persists belief nodes and their revision history.
// The in-memory engine is the authority; the repository is its durable shadow.
type BeliefRepository interface {
	Save(ctx context.Context, n BeliefNode) error
	LoadAll(ctx context.Context) ([]BeliefNode, error)
}

// TensionRepository persists tension records.
type TensionRepository interface {
	Save(ctx context.Context, t TensionRecord) error
	LoadAll(ctx context.Context) ([]TensionRecord, error)
}

// MemoryRepository persists the insight log.
type MemoryRepository interface {
	Create(ctx context.Context, m *MemoryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*MemoryEntry, error)
	ListRecent(ctx context.Context, limit int) ([]MemoryEntry, error)
	Recall(ctx context.Context, embedding []float32, opts RecallOpts) ([]MemoryWithScore, error)
	CountByCategory(ctx context.Context) (map[MemoryCategory]int, error)
}

// DebateRepository persists debate transcripts.
type DebateRepository interface {
	Create(ctx context.Context, d *DebateRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*DebateRecord, error)
	ListRecent(ctx context.Context, limit int) ([]DebateRecord, error)
	CountByWinnerRole(ctx context.Context) (map[Role]int, error)
}

// EmbeddingClient turns text into a vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMClient runs the congress deliberation for one user turn.
// beliefContext is a rendered summary of the current belief snapshot.
type LLMClient interface {
	Deliberate(ctx context.Context, userMessage, beliefContext string) (*Deliberation, error)
}
