package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

// EvaluationUseCase wires the full pipeline behind the inbound service
// port: fetch the document, chunk it, build an evaluator, and run the
// requested evaluation.
type EvaluationUseCase struct {
	fetcher  ports.DocumentFetcher
	chunker  ports.Chunker
	embedder ports.Embedder
	analysis *AnalysisClient
	topK     int
	logger   *slog.Logger
}

func NewEvaluationUseCase(
	fetcher ports.DocumentFetcher,
	chunker ports.Chunker,
	embedder ports.Embedder,
	analysis *AnalysisClient,
	topK int,
	logger *slog.Logger,
) *EvaluationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluationUseCase{
		fetcher:  fetcher,
		chunker:  chunker,
		embedder: embedder,
		analysis: analysis,
		topK:     topK,
		logger:   logger,
	}
}

var _ ports.EvaluationService = (*EvaluationUseCase)(nil)

func (uc *EvaluationUseCase) Evaluate(ctx context.Context, source string, kind domain.EvaluationKind) (*domain.EvaluationOutcome, error) {
	if strings.TrimSpace(source) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "evaluate", fmt.Errorf("empty document source"))
	}

	id := uuid.NewString()
	uc.logger.Info("evaluation_started", "evaluation_id", id, "source", source, "kind", string(kind))

	text, err := uc.fetcher.FetchDocumentText(ctx, source)
	if err != nil {
		return nil, err
	}
	chunks := uc.chunker.Split(text)
	uc.logger.Info("document_prepared", "evaluation_id", id, "chars", len(text), "chunks", len(chunks))

	evaluator, err := NewPaperEvaluator(ctx, uc.embedder, uc.analysis, uc.topK, uc.logger, text, chunks)
	if err != nil {
		return nil, err
	}

	report, err := evaluator.Evaluate(ctx, kind)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("evaluation_completed", "evaluation_id", id, "kind", string(kind), "report_chars", len(report))

	return &domain.EvaluationOutcome{
		ID:             id,
		Source:         source,
		Kind:           kind,
		Classification: evaluator.Classification(),
		Report:         report,
		Stats:          evaluator.Stats(),
		ChunkCount:     evaluator.ChunkCount(),
	}, nil
}
