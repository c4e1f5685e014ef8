package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/infrastructure/resilience"
)

// Sampling settings mirror the OpenAI generator so switching providers
// does not change the analysis character.
const (
	genTemperature = 0.3
	genTopP        = 0.9
	genNumPredict  = 1500
)

type Config struct {
	BaseURL        string
	GenModel       string
	EmbedModel     string
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	out := c
	if out.BaseURL == "" {
		out.BaseURL = "http://localhost:11434"
	}
	if out.GenModel == "" {
		out.GenModel = "llama3.1:8b"
	}
	if out.EmbedModel == "" {
		out.EmbedModel = "nomic-embed-text"
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = 120 * time.Second
	}
	return out
}

// Client talks to a local Ollama server. All calls run through the shared
// resilience executor so transient failures retry the same way they do
// for the hosted provider.
type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	cfg = cfg.withDefaults()
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig(), slog.Default())
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		genModel:   cfg.GenModel,
		embedModel: cfg.EmbedModel,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		executor:   executor,
	}
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	return c.executor.Execute(ctx, operation, fn, classifyOllamaError)
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "embed", fmt.Errorf("empty text"))
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": []string{text},
	}

	var vector []float32
	err := e.client.execute(ctx, "ollama_embed", func(ctx context.Context) error {
		var response struct {
			Embeddings [][]float32 `json:"embeddings"`
		}
		if err := e.client.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
			return err
		}
		if len(response.Embeddings) == 0 || len(response.Embeddings[0]) == 0 {
			return fmt.Errorf("empty embedding response")
		}
		vector = response.Embeddings[0]
		return nil
	})
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed", err)
	}
	return vector, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	request := map[string]any{
		"model":  g.client.genModel,
		"system": systemInstruction,
		"prompt": userPrompt,
		"stream": false,
		"options": map[string]any{
			"temperature": genTemperature,
			"top_p":       genTopP,
			"num_predict": genNumPredict,
		},
	}

	var out string
	err := g.client.execute(ctx, "ollama_generate", func(ctx context.Context) error {
		var response struct {
			Response string `json:"response"`
		}
		if err := g.client.postJSON(ctx, "/api/generate", request, &response, "generate"); err != nil {
			return err
		}
		out = strings.TrimSpace(response.Response)
		return nil
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate", err)
	}
	return out, nil
}
