package domain

import (
	"time"

	"github.com/google/uuid"
)

// BeliefDomain is the topical category a belief belongs to.
type BeliefDomain string

const (
	DomainSelf       BeliefDomain = "self"
	DomainKnowledge  BeliefDomain = "knowledge"
	DomainEthics     BeliefDomain = "ethics"
	DomainRelational BeliefDomain = "relational"
	DomainMeta       BeliefDomain = "meta"
)

func ValidBeliefDomain(d string) bool {
	switch BeliefDomain(d) {
	case DomainSelf, DomainKnowledge, DomainEthics, DomainRelational, DomainMeta:
		return true
	}
	return false
}

// RevisionType names the four audited mutations a belief can undergo.
type RevisionType string

const (
	RevisionChallenge  RevisionType = "challenge"
	RevisionStrengthen RevisionType = "strengthen"
	RevisionWeaken     RevisionType = "weaken"
	RevisionRevise     RevisionType = "revise"
)

func ValidRevisionType(t string) bool {
	switch RevisionType(t) {
	case RevisionChallenge, RevisionStrengthen, RevisionWeaken, RevisionRevise:
		return true
	}
	return false
}

// Weight bounds. Every node holds 1 <= Weight <= 10 at all times; writes
// saturate rather than error.
const (
	MinWeight = 1
	MaxWeight = 10
)

// ClampWeight saturates w to the [MinWeight, MaxWeight] range.
func ClampWeight(w int) int {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}

// BeliefRevision is an immutable audit record of one change to a node.
type BeliefRevision struct {
	ID             uuid.UUID    `json:"id"`
	Type           RevisionType `json:"type"`
	Reason         string       `json:"reason"`
	PreviousWeight int          `json:"previous_weight"`
	NewWeight      int          `json:"new_weight"`
	Timestamp      time.Time    `json:"timestamp"`
}

// WeightDelta is positive for strengthen, negative for weaken, zero otherwise.
func (r BeliefRevision) WeightDelta() int {
	return r.NewWeight - r.PreviousWeight
}

// BeliefNode is a single weighted stance in the belief network.
// Connections are symmetric and maintained by the store, not the node.
type BeliefNode struct {
	ID              uuid.UUID        `json:"id"`
	Stance          string           `json:"stance"`
	Domain          BeliefDomain     `json:"domain"`
	Weight          int              `json:"weight"`
	Reasoning       string           `json:"reasoning"`
	IsCore          bool             `json:"is_core"`
	RevisionHistory []BeliefRevision `json:"revision_history"`
	ConnectionIDs   []uuid.UUID      `json:"connection_ids"`
	LastUpdated     time.Time        `json:"last_updated"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Clone returns a deep copy so snapshots never alias live store state.
func (n BeliefNode) Clone() BeliefNode {
	out := n
	out.RevisionHistory = make([]BeliefRevision, len(n.RevisionHistory))
	copy(out.RevisionHistory, n.RevisionHistory)
	out.ConnectionIDs = make([]uuid.UUID, len(n.ConnectionIDs))
	copy(out.ConnectionIDs, n.ConnectionIDs)
	return out
}

// Connected reports whether id is in the node's connection set.
func (n BeliefNode) Connected(id uuid.UUID) bool {
	for _, c := range n.ConnectionIDs {
		if c == id {
			return true
		}
	}
	return false
}

// BeliefUpdate is one externally-proposed mutation, typically parsed from
// LLM output. Stance is matched case-insensitively; unknown stances are
// skipped, never errored.
type BeliefUpdate struct {
	Stance       string       `json:"stance"`
	RevisionType RevisionType `json:"revision_type"`
	Reason       string       `json:"reason"`
	TargetWeight *int         `json:"target_weight,omitempty"`
}

// ApplyResult reports the outcome of one update batch.
type ApplyResult struct {
	Applied        []BeliefNode `json:"applied"`
	Skipped        []string     `json:"skipped"`
	CoherenceScore float64      `json:"coherence_score"`
}
