package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avezina/paperlens/internal/config"
	"github.com/avezina/paperlens/internal/core/ports"
	"github.com/avezina/paperlens/internal/core/usecase"
	"github.com/avezina/paperlens/internal/infrastructure/chunking"
	"github.com/avezina/paperlens/internal/infrastructure/fetch"
	"github.com/avezina/paperlens/internal/infrastructure/llm/ollama"
	"github.com/avezina/paperlens/internal/infrastructure/llm/openai"
	"github.com/avezina/paperlens/internal/infrastructure/resilience"
	"github.com/avezina/paperlens/internal/infrastructure/storage/localfs"
	"github.com/avezina/paperlens/internal/observability/metrics"
)

// Options selects the pieces that differ between the two binaries.
type Options struct {
	// ServiceName labels logs and metrics.
	ServiceName string
	// EnableMetrics registers prometheus collectors. The CLI leaves this
	// off since it has no scrape endpoint.
	EnableMetrics bool
}

// App holds the wired pipeline. The HTTP server consumes Service; the CLI
// drives the exposed ports step by step to report per-stage progress.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Fetcher  ports.DocumentFetcher
	Chunker  ports.Chunker
	Embedder ports.Embedder
	Analysis *usecase.AnalysisClient
	Service  ports.EvaluationService

	HTTPMetrics     *metrics.HTTPServerMetrics
	PipelineMetrics *metrics.PipelineMetrics
}

func New(cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "paperlens"
	}

	var httpMetrics *metrics.HTTPServerMetrics
	var pipelineMetrics *metrics.PipelineMetrics
	if opts.EnableMetrics {
		httpMetrics = metrics.NewHTTPServerMetrics(serviceName)
		pipelineMetrics = metrics.NewPipelineMetrics(httpMetrics.Registry())
	}

	storage, err := localfs.New(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("init document cache: %w", err)
	}
	fetcher := fetch.New(storage, time.Duration(cfg.FetchTimeoutSeconds)*time.Second, logger)

	// One executor is shared by both providers so breaker state follows
	// the remote operation, not the adapter instance.
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.TransportMaxAttempts,
		BreakerEnabled:   cfg.BreakerEnabled,
	}, logger)

	embedder, generator, err := buildProvider(cfg, executor)
	if err != nil {
		return nil, err
	}
	embedder = metrics.InstrumentEmbedder(pipelineMetrics, serviceName, embedder)
	generator = metrics.InstrumentGenerator(pipelineMetrics, serviceName, generator)

	analysis := usecase.NewAnalysisClient(generator, usecase.RetryPolicy{
		MaxAttempts:    cfg.AnalysisMaxAttempts,
		InitialBackoff: time.Duration(cfg.AnalysisInitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.AnalysisMaxBackoffMS) * time.Millisecond,
	}, logger)

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	var service ports.EvaluationService = usecase.NewEvaluationUseCase(
		fetcher,
		chunker,
		embedder,
		analysis,
		cfg.RetrievalTopK,
		logger,
	)
	service = metrics.InstrumentEvaluationService(pipelineMetrics, serviceName, service)

	return &App{
		Config: cfg,
		Logger: logger,

		Fetcher:  fetcher,
		Chunker:  chunker,
		Embedder: embedder,
		Analysis: analysis,
		Service:  service,

		HTTPMetrics:     httpMetrics,
		PipelineMetrics: pipelineMetrics,
	}, nil
}

func buildProvider(cfg config.Config, executor *resilience.Executor) (ports.Embedder, ports.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "openai":
		client, err := openai.New(openai.Config{
			APIKey:            cfg.OpenAIAPIKey,
			BaseURL:           cfg.OpenAIBaseURL,
			EmbedModel:        cfg.OpenAIEmbedModel,
			GenModel:          cfg.OpenAIGenModel,
			RequestsPerSecond: cfg.OpenAIRequestsPerSecond,
			Burst:             cfg.OpenAIBurst,
		}, executor)
		if err != nil {
			return nil, nil, fmt.Errorf("init openai provider: %w", err)
		}
		return openai.NewEmbedder(client), openai.NewGenerator(client), nil
	case "ollama":
		client := ollama.New(ollama.Config{
			BaseURL:    cfg.OllamaURL,
			GenModel:   cfg.OllamaGenModel,
			EmbedModel: cfg.OllamaEmbedModel,
		}, executor)
		return ollama.NewEmbedder(client), ollama.NewGenerator(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
