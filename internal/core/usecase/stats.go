package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
)

const commonWordLimit = 30

var (
	wordPattern            = regexp.MustCompile(`\b\w+\b`)
	sentenceSplitPattern   = regexp.MustCompile(`[.!?]+`)
	paragraphSplitPattern  = regexp.MustCompile(`\n\s*\n`)
	citationPattern        = regexp.MustCompile(`\[\d+\]|\(\w+\s+et\s+al\.`)
	figurePattern          = regexp.MustCompile(`[Ff]ig(?:ure)?\.?\s*\d+`)
	tablePattern           = regexp.MustCompile(`[Tt]able\.?\s*\d+`)
	equationPattern        = regexp.MustCompile(`[=><≥≤±×÷≈≠∝∞∫∑∏√]`)
	statisticalTermPattern = regexp.MustCompile(`\bp(?:\s*[<>=]|\s*value)\s*[<>=]?\s*0\.\d+|\bt\s*\(\s*\d+\s*\)\s*[<>=]\s*\d+\.\d+|chi[\s-]*square|anova|manova|regression|correlation|mean|median|standard\s+deviation|variance|significance|statistical|sample\s+size`)
	methodologyTermPattern = regexp.MustCompile(`\bmethodology|method|approach|technique|procedure|experiment|study|analysis|design|protocol|framework|model|algorithm|implementation|evaluation|validation|testing|measurement|assessment|data\s+collection|sampling\b`)
	sectionHeaderPattern   = regexp.MustCompile(`\n\s*\d+\.?\s*[A-Z][A-Za-z\s]+\n|\n\s*[A-Z][A-Za-z\s]+\n`)
)

var statsStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "of", "to", "a", "in", "for", "is", "on", "that", "by",
		"this", "with", "as", "are", "be", "we", "our", "from", "an", "or",
		"at", "not", "it", "which", "have", "was", "were", "has", "been",
		"can", "will", "their", "they", "these", "those", "such", "but",
		"also", "than", "when", "where", "who", "what", "how", "why", "all",
		"any", "some", "no", "nor", "only", "own", "same", "so", "too", "very",
	} {
		statsStopwords[w] = struct{}{}
	}
}

// ExtractPaperStats derives surface statistics from the raw paper text.
// Pure regex counting; deterministic for a given text.
func ExtractPaperStats(text string) domain.PaperStats {
	lower := strings.ToLower(text)
	words := wordPattern.FindAllString(lower, -1)

	stats := domain.PaperStats{
		WordCount:            len(words),
		CitationCount:        len(citationPattern.FindAllString(text, -1)),
		FigureCount:          len(figurePattern.FindAllString(text, -1)),
		TableCount:           len(tablePattern.FindAllString(text, -1)),
		EquationCount:        len(equationPattern.FindAllString(text, -1)),
		StatisticalTermCount: len(statisticalTermPattern.FindAllString(lower, -1)),
		MethodologyTermCount: len(methodologyTermPattern.FindAllString(lower, -1)),
		SectionCount:         len(sectionHeaderPattern.FindAllString(text, -1)),
	}

	for _, s := range sentenceSplitPattern.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			stats.SentenceCount++
		}
	}
	for _, p := range paragraphSplitPattern.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			stats.ParagraphCount++
		}
	}

	stats.CommonWords = mostCommonWords(words, commonWordLimit)
	return stats
}

// mostCommonWords counts non-stopword terms longer than two characters and
// keeps the top n. Ties preserve first-seen order so output is stable.
func mostCommonWords(words []string, n int) []domain.WordCount {
	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, skip := statsStopwords[w]; skip {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	out := make([]domain.WordCount, 0, len(order))
	for _, w := range order {
		out = append(out, domain.WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
