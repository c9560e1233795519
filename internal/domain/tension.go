package domain

import (
	"time"

	"github.com/google/uuid"
)

// TensionRecord tracks an unresolved conflict between two belief stances.
// The pair is unordered: (A,B) and (B,A) address the same record.
type TensionRecord struct {
	ID                  uuid.UUID  `json:"id"`
	Stance1             string     `json:"stance1"`
	Stance2             string     `json:"stance2"`
	Description         string     `json:"description"`
	EncounterCount      int        `json:"encounter_count"`
	Resolved            bool       `json:"resolved"`
	ResolutionReasoning string     `json:"resolution_reasoning,omitempty"`
	ResolvedAt          *time.Time `json:"resolved_at,omitempty"`
	FirstEncountered    time.Time  `json:"first_encountered"`
	LastEncountered     time.Time  `json:"last_encountered"`
}

// TensionProposal is an externally-sourced conflict observation,
// deduplicated by unordered (Belief1, Belief2) pair.
type TensionProposal struct {
	Belief1     string `json:"belief1"`
	Belief2     string `json:"belief2"`
	Description string `json:"description"`
}
