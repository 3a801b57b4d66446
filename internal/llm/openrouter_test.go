package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
		if err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("model pass-through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "anthropic/claude-sonnet-4.5",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "anthropic/claude-sonnet-4.5" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("custom base URL is used", func(t *testing.T) {
		var path string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			openAITextReply(w, "2 + 2")
		}))
		t.Cleanup(server.Close)

		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  "sk-or-test",
			Model:   "google/gemini-2.5-flash",
			BaseURL: server.URL + "/api/v1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp, err := p.Generate(context.Background(), Request{
			Messages: []Message{{Role: RoleUser, Content: "read"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/api/v1/chat/completions" {
			t.Errorf("request path = %q", path)
		}
		if string(resp.Content) != "2 + 2" {
			t.Errorf("content = %s", resp.Content)
		}
	})
}
