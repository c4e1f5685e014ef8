package ports

import (
	"context"

	"github.com/avezina/paperlens/internal/core/domain"
)

// EvaluationService is the inbound contract for running one critique pass
// over a remote paper.
type EvaluationService interface {
	Evaluate(ctx context.Context, source string, kind domain.EvaluationKind) (*domain.EvaluationOutcome, error)
}
