package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenAIClient("test-key", "text-embedding-3-small")
	c.baseURL = srv.URL
	return c, srv
}

func TestOpenAIEmbed_SendsConfiguredModel(t *testing.T) {
	var gotModel, gotAuth string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotModel = req.Model
		gotAuth = r.Header.Get("Authorization")

		resp := map[string]any{
			"data": []map[string]any{{"embedding": make([]float32, Dimensions)}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	vec, err := c.Embed(context.Background(), "growth needs friction")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != Dimensions {
		t.Errorf("embedding width = %d, want %d", len(vec), Dimensions)
	}
	if gotModel != "text-embedding-3-small" {
		t.Errorf("request model = %q, want the configured one", gotModel)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
}

func TestOpenAIEmbed_RejectsWrongWidth(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{{"embedding": make([]float32, 8)}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	_, err := c.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for a vector narrower than the schema column")
	}
	if !strings.Contains(err.Error(), "1536") {
		t.Errorf("error should name the expected width, got: %v", err)
	}
}

func TestOpenAIEmbed_SurfacesAPIFailure(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, "", "text-embedding-3-small"); err == nil {
		t.Error("expected error for openai without key")
	}
	if _, err := NewClient("word2vec", "key", "m"); err == nil {
		t.Error("expected error for unknown provider")
	}

	c, err := NewClient(ProviderMock, "", "")
	if err != nil {
		t.Fatalf("mock client: %v", err)
	}
	mock, ok := c.(*MockClient)
	if !ok {
		t.Fatalf("expected *MockClient, got %T", c)
	}
	if mock.Dimensions != Dimensions {
		t.Errorf("mock width = %d, want the schema width %d", mock.Dimensions, Dimensions)
	}
}
