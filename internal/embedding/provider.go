package embedding

import (
	"context"
	"fmt"

	"github.com/psyche-works/psyche/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// NewClient creates an embedding client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider, apiKey, model string) (domain.EmbeddingClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI embedding provider")
		}
		return NewOpenAIClient(apiKey, model), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (valid options: openai, mock)", provider)
	}
}

// MockClient returns a deterministic vector of the same width the schema
// stores, useful in tests and local development without API keys.
type MockClient struct {
	Dimensions int
	EmbedErr   error
	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{Dimensions: Dimensions}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedErr != nil {
		return nil, c.EmbedErr
	}

	// Deterministic pseudo-embedding derived from the text bytes.
	vec := make([]float32, c.Dimensions)
	for i, b := range []byte(text) {
		vec[i%c.Dimensions] += float32(b) / 255
	}
	return vec, nil
}
