package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/avezina/paperlens/internal/core/domain"
)

const evalPaperText = "The simulation model text runs many experiments.\n\nSecond paragraph reports results near 0.9."

func evalChunks() []domain.Chunk {
	return []domain.Chunk{
		{Title: "Chunk 1", Content: "The simulation model text"},
		{Title: "Chunk 2", Content: "reports results near 0.9"},
	}
}

func scriptedConstruction() []string {
	return []string{
		"RESEARCH_TYPE: simulation\nCONFIDENCE: medium\nRATIONALE: computational models\nKEY_CHARACTERISTICS: simulated runs",
		criteriaResponse,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEvaluator(t *testing.T, generator *generatorFake, embedder *embedderFake) *PaperEvaluator {
	t.Helper()
	client := NewAnalysisClient(generator, fastRetryPolicy(3), discardLogger())
	evaluator, err := NewPaperEvaluator(context.Background(), embedder, client, 5, discardLogger(), evalPaperText, evalChunks())
	if err != nil {
		t.Fatalf("NewPaperEvaluator() error = %v", err)
	}
	return evaluator
}

func TestNewPaperEvaluatorEagerlyClassifiesAndDerivesCriteria(t *testing.T) {
	generator := &generatorFake{responses: scriptedConstruction()}
	embedder := &embedderFake{}
	evaluator := newTestEvaluator(t, generator, embedder)

	if len(generator.calls) != 2 {
		t.Fatalf("expected classification and criteria calls at construction, got %d", len(generator.calls))
	}
	if evaluator.Classification().ResearchType != domain.TypeSimulation {
		t.Fatalf("expected simulation classification, got %s", evaluator.Classification().ResearchType)
	}
	if got := evaluator.Criteria().MethodologyCriteria; len(got) != 2 || got[0] != "Model construction is justified" {
		t.Fatalf("expected parsed methodology criteria, got %v", got)
	}
	if evaluator.ChunkCount() != 2 {
		t.Fatalf("expected 2 chunks, got %d", evaluator.ChunkCount())
	}
	if len(embedder.calls) != 2 {
		t.Fatalf("expected one embed per chunk at construction, got %d", len(embedder.calls))
	}
	if evaluator.Stats().WordCount == 0 {
		t.Fatalf("expected stats extracted at construction")
	}
}

func TestNewPaperEvaluatorRejectsEmptyText(t *testing.T) {
	client := NewAnalysisClient(&generatorFake{}, fastRetryPolicy(3), discardLogger())
	_, err := NewPaperEvaluator(context.Background(), &embedderFake{}, client, 5, discardLogger(), "   ", evalChunks())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error kind, got %v", err)
	}
}

func TestNewPaperEvaluatorRejectsMissingChunks(t *testing.T) {
	client := NewAnalysisClient(&generatorFake{}, fastRetryPolicy(3), discardLogger())
	_, err := NewPaperEvaluator(context.Background(), &embedderFake{}, client, 5, discardLogger(), evalPaperText, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error kind, got %v", err)
	}
}

func TestEvaluateMethodologyAsksBaseAndTypeQuestions(t *testing.T) {
	generator := &generatorFake{responses: scriptedConstruction()}
	embedder := &embedderFake{}
	evaluator := newTestEvaluator(t, generator, embedder)

	verdict, err := evaluator.EvaluateMethodology(context.Background())
	if err != nil {
		t.Fatalf("EvaluateMethodology() error = %v", err)
	}
	if verdict != "analysis" {
		t.Fatalf("expected synthesized verdict, got %q", verdict)
	}
	// 2 construction calls, 6 questions (5 base + 1 simulation extra), 1 synthesis.
	if len(generator.calls) != 9 {
		t.Fatalf("expected 9 generate calls, got %d", len(generator.calls))
	}
	if !strings.Contains(generator.calls[2].prompt, "Question: What methods does this paper use?") {
		t.Fatalf("expected first base question, got:\n%s", generator.calls[2].prompt)
	}
	if !strings.Contains(generator.calls[2].prompt, "[Excerpt 1 from Chunk 1]") {
		t.Fatalf("expected excerpt block in question prompt, got:\n%s", generator.calls[2].prompt)
	}
	if !strings.Contains(generator.calls[7].prompt, "Question: How is the simulation model constructed and parameterized?") {
		t.Fatalf("expected simulation follow-up question, got:\n%s", generator.calls[7].prompt)
	}
	if len(embedder.calls) != 8 {
		t.Fatalf("expected 2 chunk embeds plus 6 question embeds, got %d", len(embedder.calls))
	}

	synthesis := generator.calls[8].prompt
	for _, want := range []string{
		"Provide a comprehensive evaluation of the research methodology in this paper.",
		"Research type: simulation",
		"Tailored evaluation criteria:\n1. Model construction is justified",
		"Methodology keyword frequencies:\nmodel: 1, method: 0",
		"Methodology aspects:",
		"What methods does this paper use?:\nanalysis",
		"1. Appropriateness of the methods for the research questions",
		"Structure your evaluation with clear sections, highlighting both strengths and weaknesses.",
	} {
		if !strings.Contains(synthesis, want) {
			t.Fatalf("expected synthesis prompt to contain %q, got:\n%s", want, synthesis)
		}
	}
}

func TestDimensionPromptOmitsCriteriaSectionWhenEmpty(t *testing.T) {
	generator := &generatorFake{responses: []string{
		"RESEARCH_TYPE: simulation\nCONFIDENCE: low\nRATIONALE: models\nKEY_CHARACTERISTICS: runs",
		"no structured criteria today",
	}}
	evaluator := newTestEvaluator(t, generator, &embedderFake{})

	if _, err := evaluator.EvaluateSignificance(context.Background()); err != nil {
		t.Fatalf("EvaluateSignificance() error = %v", err)
	}
	synthesis := generator.calls[len(generator.calls)-1].prompt
	if strings.Contains(synthesis, "Tailored evaluation criteria:") {
		t.Fatalf("expected criteria section omitted, got:\n%s", synthesis)
	}
	if !strings.Contains(synthesis, "Provide a comprehensive evaluation of the research significance and innovation in this paper.") {
		t.Fatalf("expected significance header, got:\n%s", synthesis)
	}
}

func TestEvaluateComprehensiveSynthesizesAllDimensions(t *testing.T) {
	generator := &generatorFake{responses: scriptedConstruction()}
	evaluator := newTestEvaluator(t, generator, &embedderFake{})

	report, err := evaluator.EvaluateComprehensive(context.Background())
	if err != nil {
		t.Fatalf("EvaluateComprehensive() error = %v", err)
	}
	if report != "analysis" {
		t.Fatalf("expected final verdict, got %q", report)
	}
	// 2 construction, 7 methodology, 8 robustness, 6 significance, 1 final.
	if len(generator.calls) != 24 {
		t.Fatalf("expected 24 generate calls, got %d", len(generator.calls))
	}

	final := generator.calls[23].prompt
	for _, want := range []string{
		"Provide a comprehensive evaluation of this research paper based on the following detailed assessments:",
		"Classification confidence: medium",
		"METHODOLOGY EVALUATION:\nanalysis",
		"ROBUSTNESS EVALUATION:\nanalysis",
		"SIGNIFICANCE EVALUATION:\nanalysis",
		"- Most common terms: simulation (1), model (1)",
		"4. Concludes with a final verdict on the paper's merit",
	} {
		if !strings.Contains(final, want) {
			t.Fatalf("expected final prompt to contain %q, got:\n%s", want, final)
		}
	}
}

func TestEvaluateDispatchesByKind(t *testing.T) {
	generator := &generatorFake{responses: scriptedConstruction()}
	evaluator := newTestEvaluator(t, generator, &embedderFake{})

	if _, err := evaluator.Evaluate(context.Background(), domain.EvaluationMethodology); err != nil {
		t.Fatalf("Evaluate(methodology) error = %v", err)
	}
	_, err := evaluator.Evaluate(context.Background(), domain.EvaluationKind("bogus"))
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error kind, got %v", err)
	}
}

func TestEvaluateDimensionPropagatesRetrievalError(t *testing.T) {
	generator := &generatorFake{responses: scriptedConstruction()}
	embedder := &embedderFake{errOn: "How reliable are the results in this paper?"}
	evaluator := newTestEvaluator(t, generator, embedder)

	_, err := evaluator.EvaluateRobustness(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrEmbedding) {
		t.Fatalf("expected embedding error kind, got %v", err)
	}
}
