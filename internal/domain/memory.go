package domain

import (
	"time"

	"github.com/google/uuid"
)

// MemoryCategory classifies an entry in the insight log.
type MemoryCategory string

const (
	CategoryInsight     MemoryCategory = "insight"
	CategoryBeliefShift MemoryCategory = "belief_shift"
	CategoryPattern     MemoryCategory = "pattern"
	CategoryTension     MemoryCategory = "tension"
	CategoryObservation MemoryCategory = "observation"
)

func ValidMemoryCategory(c string) bool {
	switch MemoryCategory(c) {
	case CategoryInsight, CategoryBeliefShift, CategoryPattern, CategoryTension, CategoryObservation:
		return true
	}
	return false
}

// BeliefRelated reports whether the category counts toward the revision rate.
func (c MemoryCategory) BeliefRelated() bool {
	return c == CategoryBeliefShift || c == CategoryTension
}

// MemoryEntry is one record in the insight/memory log.
type MemoryEntry struct {
	ID             uuid.UUID      `json:"id"`
	Category       MemoryCategory `json:"category"`
	Content        string         `json:"content"`
	RelatedStances []string       `json:"related_stances,omitempty"`
	Embedding      []float32      `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MemoryWithScore pairs an entry with its recall similarity score.
type MemoryWithScore struct {
	MemoryEntry
	Score float32 `json:"score"`
}

// RecallOpts filters a vector recall.
type RecallOpts struct {
	TopK     int
	Category *MemoryCategory
}
