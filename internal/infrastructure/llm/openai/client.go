package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/avezina/paperlens/internal/infrastructure/resilience"
)

type Config struct {
	APIKey            string
	BaseURL           string
	EmbedModel        string
	GenModel          string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

func (c Config) withDefaults() Config {
	out := c
	if out.EmbedModel == "" {
		out.EmbedModel = "text-embedding-3-small"
	}
	if out.GenModel == "" {
		out.GenModel = "gpt-4o-mini"
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = 120 * time.Second
	}
	if out.RequestsPerSecond <= 0 {
		out.RequestsPerSecond = 2
	}
	if out.Burst <= 0 {
		out.Burst = 1
	}
	return out
}

// Client talks to an OpenAI-compatible API. All calls go through a shared
// rate limiter and the resilience executor, so retries and breaker state
// apply uniformly to embeddings and completions.
type Client struct {
	api      *openai.Client
	cfg      Config
	limiter  *rate.Limiter
	executor *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	cfg = cfg.withDefaults()
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig(), slog.Default())
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}

	return &Client{
		api:      openai.NewClientWithConfig(clientCfg),
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		executor: executor,
	}, nil
}

// execute acquires a rate limiter token inside the retry loop so every
// attempt, including retries, respects the request budget.
func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	return c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return fn(ctx)
	}, classifyAPIError)
}
