package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

// PaperEvaluator runs the multi-stage critique pipeline over one document.
// Construction is eager: the semantic index, document statistics, research
// classification and tailored criteria are all built up front so the
// evaluate calls only retrieve and generate.
type PaperEvaluator struct {
	text   string
	chunks []domain.Chunk

	index          *SemanticIndex
	stats          domain.PaperStats
	classification domain.ResearchClassification
	criteria       domain.EvaluationCriteria

	retriever *Retriever
	analysis  *AnalysisClient
	logger    *slog.Logger
}

func NewPaperEvaluator(ctx context.Context, embedder ports.Embedder, analysis *AnalysisClient, topK int, logger *slog.Logger, text string, chunks []domain.Chunk) (*PaperEvaluator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new paper evaluator", fmt.Errorf("empty document text"))
	}
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new paper evaluator", fmt.Errorf("document produced no chunks"))
	}

	index, err := BuildSemanticIndex(ctx, embedder, chunks)
	if err != nil {
		return nil, err
	}
	stats := ExtractPaperStats(text)

	classifier := NewResearchClassifier(analysis, logger)
	classification, err := classifier.Classify(ctx, text, chunks)
	if err != nil {
		return nil, err
	}
	criteria, err := classifier.DeriveCriteria(ctx, classification.ResearchType, stats)
	if err != nil {
		return nil, err
	}

	logger.Info("paper_evaluator_ready",
		"chunks", len(chunks),
		"research_type", string(classification.ResearchType),
		"confidence", string(classification.Confidence),
	)

	return &PaperEvaluator{
		text:           text,
		chunks:         chunks,
		index:          index,
		stats:          stats,
		classification: classification,
		criteria:       criteria,
		retriever:      NewRetriever(embedder, topK),
		analysis:       analysis,
		logger:         logger,
	}, nil
}

func (e *PaperEvaluator) Classification() domain.ResearchClassification { return e.classification }

func (e *PaperEvaluator) Criteria() domain.EvaluationCriteria { return e.criteria }

func (e *PaperEvaluator) Stats() domain.PaperStats { return e.stats }

func (e *PaperEvaluator) ChunkCount() int { return len(e.chunks) }

// Evaluate dispatches to the evaluation matching kind.
func (e *PaperEvaluator) Evaluate(ctx context.Context, kind domain.EvaluationKind) (string, error) {
	switch kind {
	case domain.EvaluationMethodology:
		return e.EvaluateMethodology(ctx)
	case domain.EvaluationRobustness:
		return e.EvaluateRobustness(ctx)
	case domain.EvaluationSignificance:
		return e.EvaluateSignificance(ctx)
	case domain.EvaluationComprehensive:
		return e.EvaluateComprehensive(ctx)
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "evaluate", fmt.Errorf("unknown evaluation %q", kind))
	}
}

func (e *PaperEvaluator) EvaluateMethodology(ctx context.Context) (string, error) {
	return e.evaluateDimension(ctx, methodologyDimension)
}

func (e *PaperEvaluator) EvaluateRobustness(ctx context.Context) (string, error) {
	return e.evaluateDimension(ctx, robustnessDimension)
}

func (e *PaperEvaluator) EvaluateSignificance(ctx context.Context) (string, error) {
	return e.evaluateDimension(ctx, significanceDimension)
}

// EvaluateComprehensive runs all three dimension evaluations and folds
// their verdicts into one final assessment.
func (e *PaperEvaluator) EvaluateComprehensive(ctx context.Context) (string, error) {
	methodology, err := e.EvaluateMethodology(ctx)
	if err != nil {
		return "", err
	}
	robustness, err := e.EvaluateRobustness(ctx)
	if err != nil {
		return "", err
	}
	significance, err := e.EvaluateSignificance(ctx)
	if err != nil {
		return "", err
	}

	prompt := e.buildComprehensivePrompt(methodology, robustness, significance)
	verdict, err := e.analysis.Analyze(ctx, "Comprehensive evaluation", prompt)
	if err != nil {
		return "", err
	}
	e.logger.Info("dimension_evaluated", "kind", string(domain.EvaluationComprehensive))
	return verdict, nil
}

// evaluateDimension answers every question for the dimension against the
// semantic index, then asks for a synthesized verdict over the answers.
func (e *PaperEvaluator) evaluateDimension(ctx context.Context, dim dimension) (string, error) {
	questions := dim.questionsFor(e.classification.ResearchType)
	results := make([]domain.DimensionResult, 0, len(questions))
	for _, question := range questions {
		ranked, err := e.retriever.Query(ctx, e.index, question)
		if err != nil {
			return "", err
		}
		prompt := ComposeAnalysisPrompt(question, ranked, "")
		analysis, err := e.analysis.Analyze(ctx, question, prompt)
		if err != nil {
			return "", err
		}
		results = append(results, domain.DimensionResult{Query: question, Analysis: analysis})
		e.logger.Debug("dimension_question_answered", "kind", string(dim.kind), "question", question)
	}

	counts := countKeywords(e.text, dim.keywords)
	prompt := e.buildDimensionPrompt(dim, counts, results)
	verdict, err := e.analysis.Analyze(ctx, "Evaluate "+string(dim.kind), prompt)
	if err != nil {
		return "", err
	}
	e.logger.Info("dimension_evaluated", "kind", string(dim.kind), "questions", len(questions))
	return verdict, nil
}

func (e *PaperEvaluator) buildDimensionPrompt(dim dimension, counts []domain.WordCount, results []domain.DimensionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a comprehensive evaluation of the %s in this paper.\n\n", dim.topic)
	fmt.Fprintf(&b, "Research type: %s (%s)\n\n", e.classification.ResearchType, e.criteria.TypeDescription)

	if criteria := dim.criteriaFor(e.criteria); len(criteria) > 0 {
		b.WriteString("Tailored evaluation criteria:\n")
		for i, criterion := range criteria {
			fmt.Fprintf(&b, "%d. %s\n", i+1, criterion)
		}
		b.WriteString("\n")
	}

	writeStatsBlock(&b, e.stats)

	fmt.Fprintf(&b, "\n%s keyword frequencies:\n%s\n", dim.noun, formatKeywordCounts(counts))
	fmt.Fprintf(&b, "\n%s aspects:\n", dim.noun)
	for _, result := range results {
		fmt.Fprintf(&b, "\n%s:\n%s\n", result.Query, result.Analysis)
	}

	fmt.Fprintf(&b, "\nBased on the above information, provide a detailed evaluation of %s covering:\n", dim.closing)
	for i, aspect := range dim.aspects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, aspect)
	}
	b.WriteString("\nStructure your evaluation with clear sections, highlighting both strengths and weaknesses.")

	return b.String()
}

func (e *PaperEvaluator) buildComprehensivePrompt(methodology, robustness, significance string) string {
	var b strings.Builder
	b.WriteString("Provide a comprehensive evaluation of this research paper based on the following detailed assessments:\n\n")
	fmt.Fprintf(&b, "Research type: %s (%s)\n", e.classification.ResearchType, e.criteria.TypeDescription)
	fmt.Fprintf(&b, "Classification confidence: %s\n\n", e.classification.Confidence)

	fmt.Fprintf(&b, "METHODOLOGY EVALUATION:\n%s\n\n", methodology)
	fmt.Fprintf(&b, "ROBUSTNESS EVALUATION:\n%s\n\n", robustness)
	fmt.Fprintf(&b, "SIGNIFICANCE EVALUATION:\n%s\n\n", significance)

	writeStatsBlock(&b, e.stats)
	terms := make([]string, 0, 10)
	for _, wc := range e.stats.TopCommonWords(10) {
		terms = append(terms, fmt.Sprintf("%s (%d)", wc.Word, wc.Count))
	}
	fmt.Fprintf(&b, "- Most common terms: %s\n", strings.Join(terms, ", "))

	b.WriteString(`
Based on all the above information, provide a final comprehensive evaluation of the paper that:
1. Summarizes the key strengths and weaknesses across all dimensions
2. Provides an overall assessment of the paper's quality and contribution
3. Offers constructive suggestions for improvement
4. Concludes with a final verdict on the paper's merit

Structure your evaluation with clear sections and a final summary.`)

	return b.String()
}

func writeStatsBlock(b *strings.Builder, stats domain.PaperStats) {
	b.WriteString("Paper statistics:\n")
	fmt.Fprintf(b, "- Word count: %d\n", stats.WordCount)
	fmt.Fprintf(b, "- Citation count: %d\n", stats.CitationCount)
	fmt.Fprintf(b, "- Figure count: %d\n", stats.FigureCount)
	fmt.Fprintf(b, "- Table count: %d\n", stats.TableCount)
	fmt.Fprintf(b, "- Equation count: %d\n", stats.EquationCount)
}

// countKeywords counts whole-word occurrences of each keyword over the
// lowercased text, ordered by descending count. Ties keep keyword-list
// order. Zero counts are kept so the prompt shows the full vocabulary.
func countKeywords(text string, keywords []string) []domain.WordCount {
	lower := strings.ToLower(text)
	counts := make([]domain.WordCount, 0, len(keywords))
	for _, keyword := range keywords {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		counts = append(counts, domain.WordCount{
			Word:  keyword,
			Count: len(pattern.FindAllStringIndex(lower, -1)),
		})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

func formatKeywordCounts(counts []domain.WordCount) string {
	parts := make([]string, 0, len(counts))
	for _, kc := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", kc.Word, kc.Count))
	}
	return strings.Join(parts, ", ")
}
