package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	cfg := resilience.DefaultConfig()
	cfg.RetryInitialBackoff = time.Millisecond
	cfg.RetryMaxBackoff = 5 * time.Millisecond
	cfg.BreakerEnabled = false
	return resilience.NewExecutor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		APIKey:            "test-key",
		BaseURL:           baseURL + "/v1",
		RequestsPerSecond: 1000,
		Burst:             100,
	}, testExecutor())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, testExecutor()); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestEmbedReturnsVector(t *testing.T) {
	var capturedModel string
	var capturedInput []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedModel, _ = payload["model"].(string)
		capturedInput, _ = payload["input"].([]any)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(testClient(t, server.URL))
	vector, err := embedder.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("expected 3 components, got %d", len(vector))
	}
	if math.Abs(float64(vector[1])-0.2) > 1e-6 {
		t.Fatalf("unexpected vector %v", vector)
	}
	if capturedModel != "text-embedding-3-small" {
		t.Fatalf("unexpected model %q", capturedModel)
	}
	if len(capturedInput) != 1 || capturedInput[0] != "hello world" {
		t.Fatalf("unexpected input %v", capturedInput)
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	embedder := NewEmbedder(testClient(t, "http://localhost:1"))
	if _, err := embedder.Embed(context.Background(), "  "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestGenerateSendsSystemAndUserMessages(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  the answer  "}}]}`))
	}))
	defer server.Close()

	gen := NewGenerator(testClient(t, server.URL))
	answer, err := gen.Generate(context.Background(), "system role", "user question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}

	messages, _ := payload["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	second, _ := messages[1].(map[string]any)
	if first["role"] != "system" || first["content"] != "system role" {
		t.Fatalf("unexpected system message %v", first)
	}
	if second["role"] != "user" || second["content"] != "user question" {
		t.Fatalf("unexpected user message %v", second)
	}
	if temp, _ := payload["temperature"].(float64); math.Abs(temp-0.3) > 1e-6 {
		t.Fatalf("unexpected temperature %v", payload["temperature"])
	}
	if maxTokens, _ := payload["max_tokens"].(float64); maxTokens != 1500 {
		t.Fatalf("unexpected max_tokens %v", payload["max_tokens"])
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"recovered"}}]}`))
	}))
	defer server.Close()

	gen := NewGenerator(testClient(t, server.URL))
	answer, err := gen.Generate(context.Background(), "system", "question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "recovered" {
		t.Fatalf("expected recovered answer, got %q", answer)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestGenerateDoesNotRetryAuthFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	gen := NewGenerator(testClient(t, server.URL))
	_, err := gen.Generate(context.Background(), "system", "question")
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected single attempt, got %d", attempts)
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("auth failure must not be marked temporary, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected response message in error, got %v", err)
	}
}

func TestEmbedMarksExhaustedRetriesTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(testClient(t, server.URL))
	_, err := embedder.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}
