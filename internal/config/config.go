package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of both binaries. Values resolve in three
// layers: built-in defaults, then an optional YAML file, then environment
// variables. Environment always wins so one shared file can still be
// overridden per deployment.
type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	LLMProvider string `yaml:"llm_provider"`

	OpenAIAPIKey            string  `yaml:"openai_api_key"`
	OpenAIBaseURL           string  `yaml:"openai_base_url"`
	OpenAIEmbedModel        string  `yaml:"openai_embed_model"`
	OpenAIGenModel          string  `yaml:"openai_gen_model"`
	OpenAIRequestsPerSecond float64 `yaml:"openai_requests_per_second"`
	OpenAIBurst             int     `yaml:"openai_burst"`

	OllamaURL        string `yaml:"ollama_url"`
	OllamaGenModel   string `yaml:"ollama_gen_model"`
	OllamaEmbedModel string `yaml:"ollama_embed_model"`

	CacheDir            string `yaml:"cache_dir"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`

	ChunkSize     int `yaml:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap"`
	RetrievalTopK int `yaml:"retrieval_top_k"`

	AnalysisMaxAttempts      int `yaml:"analysis_max_attempts"`
	AnalysisInitialBackoffMS int `yaml:"analysis_initial_backoff_ms"`
	AnalysisMaxBackoffMS     int `yaml:"analysis_max_backoff_ms"`

	TransportMaxAttempts int  `yaml:"transport_max_attempts"`
	BreakerEnabled       bool `yaml:"breaker_enabled"`

	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
	APIMaxInFlight    int     `yaml:"api_max_in_flight"`

	HTTPReadTimeoutSeconds  int `yaml:"http_read_timeout_seconds"`
	HTTPWriteTimeoutSeconds int `yaml:"http_write_timeout_seconds"`
	HTTPIdleTimeoutSeconds  int `yaml:"http_idle_timeout_seconds"`
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		LLMProvider: "openai",

		OpenAIEmbedModel:        "text-embedding-3-small",
		OpenAIGenModel:          "gpt-4o-mini",
		OpenAIRequestsPerSecond: 2,
		OpenAIBurst:             1,

		OllamaURL:        "http://localhost:11434",
		OllamaGenModel:   "llama3.1:8b",
		OllamaEmbedModel: "nomic-embed-text",

		CacheDir:            "./data/cache",
		FetchTimeoutSeconds: 120,

		ChunkSize:     1500,
		ChunkOverlap:  300,
		RetrievalTopK: 5,

		AnalysisMaxAttempts:      3,
		AnalysisInitialBackoffMS: 1000,
		AnalysisMaxBackoffMS:     30000,

		TransportMaxAttempts: 3,
		BreakerEnabled:       true,

		APIRateLimitRPS:   5,
		APIRateLimitBurst: 10,
		APIMaxInFlight:    4,

		// Evaluations answer dozens of model calls before responding, so
		// the write timeout is sized in minutes, not seconds.
		HTTPReadTimeoutSeconds:  30,
		HTTPWriteTimeoutSeconds: 1800,
		HTTPIdleTimeoutSeconds:  60,
	}
}

// Load resolves configuration from defaults plus environment variables.
func Load() Config {
	return fromEnv(defaults())
}

// LoadWithFile layers a YAML file (when path is non-empty and exists)
// between the defaults and the environment.
func LoadWithFile(path string) (Config, error) {
	base := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &base); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return fromEnv(base), nil
}

func fromEnv(base Config) Config {
	return Config{
		APIPort:  mustEnv("API_PORT", base.APIPort),
		LogLevel: mustEnv("LOG_LEVEL", base.LogLevel),

		LLMProvider: mustEnv("LLM_PROVIDER", base.LLMProvider),

		OpenAIAPIKey:            mustEnv("OPENAI_API_KEY", base.OpenAIAPIKey),
		OpenAIBaseURL:           mustEnv("OPENAI_BASE_URL", base.OpenAIBaseURL),
		OpenAIEmbedModel:        mustEnv("OPENAI_EMBED_MODEL", base.OpenAIEmbedModel),
		OpenAIGenModel:          mustEnv("OPENAI_GEN_MODEL", base.OpenAIGenModel),
		OpenAIRequestsPerSecond: mustEnvFloat("OPENAI_REQUESTS_PER_SECOND", base.OpenAIRequestsPerSecond),
		OpenAIBurst:             mustEnvInt("OPENAI_BURST", base.OpenAIBurst),

		OllamaURL:        mustEnv("OLLAMA_URL", base.OllamaURL),
		OllamaGenModel:   mustEnv("OLLAMA_GEN_MODEL", base.OllamaGenModel),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", base.OllamaEmbedModel),

		CacheDir:            mustEnv("CACHE_DIR", base.CacheDir),
		FetchTimeoutSeconds: mustEnvInt("FETCH_TIMEOUT_SECONDS", base.FetchTimeoutSeconds),

		ChunkSize:     mustEnvInt("CHUNK_SIZE", base.ChunkSize),
		ChunkOverlap:  mustEnvInt("CHUNK_OVERLAP", base.ChunkOverlap),
		RetrievalTopK: mustEnvInt("RETRIEVAL_TOP_K", base.RetrievalTopK),

		AnalysisMaxAttempts:      mustEnvInt("ANALYSIS_MAX_ATTEMPTS", base.AnalysisMaxAttempts),
		AnalysisInitialBackoffMS: mustEnvInt("ANALYSIS_INITIAL_BACKOFF_MS", base.AnalysisInitialBackoffMS),
		AnalysisMaxBackoffMS:     mustEnvInt("ANALYSIS_MAX_BACKOFF_MS", base.AnalysisMaxBackoffMS),

		TransportMaxAttempts: mustEnvInt("TRANSPORT_MAX_ATTEMPTS", base.TransportMaxAttempts),
		BreakerEnabled:       mustEnvBool("BREAKER_ENABLED", base.BreakerEnabled),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", base.APIRateLimitRPS),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", base.APIRateLimitBurst),
		APIMaxInFlight:    mustEnvInt("API_MAX_IN_FLIGHT", base.APIMaxInFlight),

		HTTPReadTimeoutSeconds:  mustEnvInt("HTTP_READ_TIMEOUT_SECONDS", base.HTTPReadTimeoutSeconds),
		HTTPWriteTimeoutSeconds: mustEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", base.HTTPWriteTimeoutSeconds),
		HTTPIdleTimeoutSeconds:  mustEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", base.HTTPIdleTimeoutSeconds),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
