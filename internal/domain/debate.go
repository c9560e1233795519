package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role names one of the four congress voices.
type Role string

const (
	RoleAdvocate   Role = "advocate"
	RoleSkeptic    Role = "skeptic"
	RoleHarmonizer Role = "harmonizer"
	RoleVisionary  Role = "visionary"
)

// Roles lists the congress voices in speaking order.
var Roles = []Role{RoleAdvocate, RoleSkeptic, RoleHarmonizer, RoleVisionary}

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdvocate, RoleSkeptic, RoleHarmonizer, RoleVisionary:
		return true
	}
	return false
}

// RoleStatement is one role's contribution to a debate.
type RoleStatement struct {
	Role      Role   `json:"role"`
	Statement string `json:"statement"`
}

// Deliberation is the structured payload the LLM returns for one turn.
type Deliberation struct {
	Statements []RoleStatement   `json:"statements"`
	Synthesis  string            `json:"synthesis"`
	WinnerRole Role              `json:"winner_role,omitempty"`
	Updates    []BeliefUpdate    `json:"belief_updates,omitempty"`
	Tensions   []TensionProposal `json:"tensions,omitempty"`
	Insight    string            `json:"insight,omitempty"`
}

// DebateRecord is a persisted debate transcript for one conversational turn.
type DebateRecord struct {
	ID          uuid.UUID       `json:"id"`
	UserMessage string          `json:"user_message"`
	Statements  []RoleStatement `json:"statements"`
	Synthesis   string          `json:"synthesis"`
	WinnerRole  Role            `json:"winner_role,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Message is one chat message exchanged with the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
