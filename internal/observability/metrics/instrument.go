package metrics

import (
	"context"
	"time"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

// InstrumentEmbedder wraps an embedder so every call lands in the
// pipeline metrics. A nil metrics handle returns the inner port
// untouched, which keeps the CLI free of a registry.
func InstrumentEmbedder(m *PipelineMetrics, service string, inner ports.Embedder) ports.Embedder {
	if m == nil {
		return inner
	}
	return &instrumentedEmbedder{metrics: m, service: service, inner: inner}
}

// InstrumentGenerator is the generation-side counterpart of
// InstrumentEmbedder.
func InstrumentGenerator(m *PipelineMetrics, service string, inner ports.Generator) ports.Generator {
	if m == nil {
		return inner
	}
	return &instrumentedGenerator{metrics: m, service: service, inner: inner}
}

// InstrumentEvaluationService records whole evaluation runs: duration and
// status per kind, plus chunk and classification distributions on success.
func InstrumentEvaluationService(m *PipelineMetrics, service string, inner ports.EvaluationService) ports.EvaluationService {
	if m == nil {
		return inner
	}
	return &instrumentedEvaluationService{metrics: m, service: service, inner: inner}
}

type instrumentedEmbedder struct {
	metrics *PipelineMetrics
	service string
	inner   ports.Embedder
}

func (e *instrumentedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vector, err := e.inner.Embed(ctx, text)
	e.metrics.RecordCapabilityCall(e.service, "embed", time.Since(start), err)
	return vector, err
}

type instrumentedGenerator struct {
	metrics *PipelineMetrics
	service string
	inner   ports.Generator
}

func (g *instrumentedGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	start := time.Now()
	out, err := g.inner.Generate(ctx, systemInstruction, userPrompt)
	g.metrics.RecordCapabilityCall(g.service, "generate", time.Since(start), err)
	return out, err
}

type instrumentedEvaluationService struct {
	metrics *PipelineMetrics
	service string
	inner   ports.EvaluationService
}

func (s *instrumentedEvaluationService) Evaluate(ctx context.Context, source string, kind domain.EvaluationKind) (*domain.EvaluationOutcome, error) {
	start := time.Now()
	outcome, err := s.inner.Evaluate(ctx, source, kind)
	s.metrics.RecordEvaluation(s.service, string(kind), time.Since(start), err)
	if outcome != nil {
		s.metrics.RecordDocument(s.service, outcome.ChunkCount)
		s.metrics.RecordClassification(
			s.service,
			string(outcome.Classification.ResearchType),
			string(outcome.Classification.Confidence),
		)
	}
	return outcome, err
}
