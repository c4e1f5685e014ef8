package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

const analysisSystemPrompt = `You are ResearchGPT, an AI specialized in analyzing and explaining research papers.

Your task is to answer questions about the provided research paper excerpts accurately and precisely.

Guidelines:
- Base your answers strictly on the provided excerpts from the paper
- If the excerpts don't contain the information needed to answer the question, acknowledge this limitation
- Be precise and technical in your explanations
- When discussing methodologies, be specific about the techniques used
- When discussing results, include relevant numbers and metrics from the paper
- When asked to evaluate or assess aspects of the paper, use standard academic evaluation criteria
- Maintain a scholarly tone while remaining clear and accessible
- Do not fabricate information that isn't in the provided excerpts
- If mathematical equations or technical details are relevant, explain them clearly
- Use appropriate academic terminology for the field of the paper

The user's question and relevant excerpts from the paper will be provided. Focus on delivering a thorough analysis based solely on this information.`

// RetryPolicy bounds the analysis retry loop. Backoff doubles after every
// failed attempt, starting at InitialBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	out := p
	def := DefaultRetryPolicy()

	if out.MaxAttempts <= 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.InitialBackoff <= 0 {
		out.InitialBackoff = def.InitialBackoff
	}
	if out.MaxBackoff < out.InitialBackoff {
		out.MaxBackoff = out.InitialBackoff
	}
	return out
}

// AnalysisClient sends composed prompts to the generation capability under
// a fixed scholarly system instruction. Failed attempts are retried with
// exponential backoff; the final failure is wrapped as an analysis error.
type AnalysisClient struct {
	generator ports.Generator
	policy    RetryPolicy
	logger    *slog.Logger
}

func NewAnalysisClient(generator ports.Generator, policy RetryPolicy, logger *slog.Logger) *AnalysisClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisClient{
		generator: generator,
		policy:    policy.normalize(),
		logger:    logger,
	}
}

func (c *AnalysisClient) Analyze(ctx context.Context, question, prompt string) (string, error) {
	backoff := c.policy.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", domain.WrapError(domain.ErrAnalysis, "analyze", err)
		}

		answer, err := c.generator.Generate(ctx, analysisSystemPrompt, prompt)
		if err == nil {
			return strings.TrimSpace(answer), nil
		}
		lastErr = err

		if attempt == c.policy.MaxAttempts || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}

		wait := backoff
		if wait > c.policy.MaxBackoff {
			wait = c.policy.MaxBackoff
		}
		c.logger.Warn("analysis_retry",
			"question", question,
			"attempt", attempt,
			"max_attempts", c.policy.MaxAttempts,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", domain.WrapError(domain.ErrAnalysis, "analyze", lastErr)
		case <-timer.C:
		}
		backoff *= 2
	}

	return "", domain.WrapError(domain.ErrAnalysis, "analyze", lastErr)
}
