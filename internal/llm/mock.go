package llm

import (
	"context"

	"github.com/psyche-works/psyche/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what Deliberate returns.
type MockClient struct {
	DeliberateResponse *domain.Deliberation
	DeliberateError    error

	// Call tracking for assertions
	DeliberateCalls []struct{ UserMessage, BeliefContext string }
}

func NewMockClient() *MockClient {
	return &MockClient{
		DeliberateResponse: &domain.Deliberation{
			Statements: []domain.RoleStatement{
				{Role: domain.RoleAdvocate, Statement: "Mock advocate statement"},
				{Role: domain.RoleSkeptic, Statement: "Mock skeptic statement"},
				{Role: domain.RoleHarmonizer, Statement: "Mock harmonizer statement"},
				{Role: domain.RoleVisionary, Statement: "Mock visionary statement"},
			},
			Synthesis:  "Mock synthesis",
			WinnerRole: domain.RoleAdvocate,
		},
	}
}

func (c *MockClient) Deliberate(ctx context.Context, userMessage, beliefContext string) (*domain.Deliberation, error) {
	c.DeliberateCalls = append(c.DeliberateCalls, struct{ UserMessage, BeliefContext string }{userMessage, beliefContext})
	if c.DeliberateError != nil {
		return nil, c.DeliberateError
	}
	return c.DeliberateResponse, nil
}

// Reset clears recorded calls and restores the default response.
func (c *MockClient) Reset() {
	*c = *NewMockClient()
}
