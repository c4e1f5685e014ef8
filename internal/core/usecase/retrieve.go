package usecase

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

const boostFactor = 1.3

var (
	decimalOrPercentPattern = regexp.MustCompile(`\d+\.\d+|\d+%`)
	mathSymbolPattern       = regexp.MustCompile(`[=><≥≤±×÷≈≠∝∞∫∑∏√]`)

	methodologyCues = []string{"how did", "method", "approach", "technique"}
	outcomeCues     = []string{"result", "finding", "outcome", "performance"}
	theoryCues      = []string{"theory", "concept", "principle", "mechanism"}
)

// Retriever ranks indexed chunks against a question by cosine similarity,
// then nudges results matching the question's cue category.
type Retriever struct {
	embedder ports.Embedder
	topK     int
}

func NewRetriever(embedder ports.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder: embedder,
		topK:     topK,
	}
}

func (r *Retriever) Query(ctx context.Context, index *SemanticIndex, question string) ([]domain.RankedResult, error) {
	if index.Len() == 0 {
		return nil, nil
	}

	queryVector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed question", err)
	}

	results := topBySimilarity(index.entries, queryVector, r.topK)
	boostByQuestionType(question, results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return results, nil
}

// topBySimilarity scores every entry and keeps the k best. The sort is
// stable so equal scores preserve chunk order.
func topBySimilarity(entries []domain.IndexEntry, queryVector []float32, k int) []domain.RankedResult {
	scored := make([]domain.RankedResult, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, domain.RankedResult{
			Title:      entry.Chunk.Title,
			Content:    entry.Chunk.Content,
			StartPos:   entry.Chunk.StartPos,
			EndPos:     entry.Chunk.EndPos,
			Similarity: cosineSimilarity(entry.Vector, queryVector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// boostByQuestionType adjusts scores in place. Cue categories are checked
// in a fixed order and only the first matching category applies.
func boostByQuestionType(question string, results []domain.RankedResult) {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, methodologyCues):
		for i := range results {
			content := strings.ToLower(results[i].Content)
			if strings.Contains(content, "method") || strings.Contains(content, "approach") {
				results[i].Similarity *= boostFactor
			}
		}
	case containsAny(q, outcomeCues):
		for i := range results {
			if len(decimalOrPercentPattern.FindAllString(results[i].Content, -1)) > 2 {
				results[i].Similarity *= boostFactor
			}
		}
	case containsAny(q, theoryCues):
		for i := range results {
			if len(mathSymbolPattern.FindAllString(results[i].Content, -1)) > 2 {
				results[i].Similarity *= boostFactor
			}
		}
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
