package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
)

var abstractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)abstract\s*\n+([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\n\s*1\.|\n\s*Introduction)`),
	regexp.MustCompile(`(?i)ABSTRACT[:\s]*\n+([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\n\s*1\.|\n\s*Introduction)`),
	regexp.MustCompile(`(?i)Summary[:\s]*\n+([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\n\s*1\.|\n\s*Introduction)`),
	regexp.MustCompile(`(?i)Overview[:\s]*\n+([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\n\s*1\.|\n\s*Introduction)`),
}

var (
	whitespaceRunPattern = regexp.MustCompile(`\s+`)
	frontMatterPattern   = regexp.MustCompile(`(?i)^(keywords|index terms|table of contents)`)
	introSectionPattern  = regexp.MustCompile(`(?i)(?:1\.|I\.|)Introduction\s*\n+([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\n\s*2\.|\n\s*II\.)`)
)

const fallbackRationale = "Failed to determine research type from abstract/introduction. Defaulting to empirical_quantitative with low confidence."

// ResearchClassifier assigns one taxonomy label to a paper based on its
// abstract, or on introduction/chunk excerpts when no abstract is found.
type ResearchClassifier struct {
	analysis *AnalysisClient
	logger   *slog.Logger
}

func NewResearchClassifier(analysis *AnalysisClient, logger *slog.Logger) *ResearchClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchClassifier{
		analysis: analysis,
		logger:   logger,
	}
}

// Classify always yields a valid taxonomy label: unparseable generation
// output degrades to the fallback label instead of failing. Transport
// errors from the analysis step still propagate.
func (c *ResearchClassifier) Classify(ctx context.Context, paperText string, chunks []domain.Chunk) (domain.ResearchClassification, error) {
	abstract := extractAbstract(paperText)
	prompt := buildClassificationPrompt(paperText, abstract, chunks)

	raw, err := c.analysis.Analyze(ctx, "Classify research paper", prompt)
	if err != nil {
		return domain.ResearchClassification{}, err
	}

	cls, rawLabel, recognized := parseClassification(raw)
	if !recognized {
		c.logger.Warn("classification_fallback",
			"unrecognized_type", rawLabel,
			"fallback_type", string(cls.ResearchType),
		)
	}
	return cls, nil
}

// extractAbstract tries the heading patterns in priority order, then falls
// back to the first substantial paragraph among the first three. Returns
// "" when nothing qualifies.
func extractAbstract(text string) string {
	for _, pattern := range abstractPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return whitespaceRunPattern.ReplaceAllString(strings.TrimSpace(m[1]), " ")
		}
	}

	paragraphs := paragraphSplitPattern.Split(text, -1)
	if len(paragraphs) > 3 {
		paragraphs = paragraphs[:3]
	}
	for _, para := range paragraphs {
		if len(strings.TrimSpace(para)) > 100 && !frontMatterPattern.MatchString(para) {
			return strings.TrimSpace(para)
		}
	}
	return ""
}

func buildClassificationPrompt(paperText, abstract string, chunks []domain.Chunk) string {
	var b strings.Builder
	b.WriteString("I need to classify a research paper into one of the following types:\n\n")

	labels := make([]string, 0, len(domain.ResearchTypes()))
	for _, t := range domain.ResearchTypes() {
		profile, _ := domain.ProfileFor(t)
		labels = append(labels, fmt.Sprintf("%s: %s", t, profile.Description))
	}
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\n\nHere is the paper's abstract:\n\n")

	if abstract != "" {
		b.WriteString(abstract)
		b.WriteString("\n")
	} else {
		b.WriteString("Abstract not found. Using paper excerpts instead:\n")
		if m := introSectionPattern.FindStringSubmatch(paperText); m != nil {
			fmt.Fprintf(&b, "\nFrom introduction:\n%s\n", truncateRunes(m[1], 1000))
		} else {
			for i, chunk := range chunks {
				if i >= 2 {
					break
				}
				fmt.Fprintf(&b, "\nExcerpt %d:\n%s\n", i+1, truncateRunes(chunk.Content, 500))
			}
		}
	}

	b.WriteString(`
Please classify this paper into exactly ONE of the research types listed above. Focus on:
1. The primary research methodology described
2. The main contribution of the paper
3. The type of results or findings presented
4. The overall structure and approach

Do NOT over-emphasize:
- Presence of data or analysis (many papers use these)
- Statistical terms (these are common across types)
- Generic research vocabulary

Instead, look for clear indicators of the research approach and primary contribution.

Format your response as:
RESEARCH_TYPE: [type]
CONFIDENCE: [high/medium/low]
RATIONALE: [detailed explanation]
KEY_CHARACTERISTICS: [bullet points of key characteristics]`)

	return b.String()
}

// parseClassification reads the four tagged lines. An unknown or missing
// label yields the fallback classification and recognized=false.
func parseClassification(raw string) (cls domain.ResearchClassification, rawLabel string, recognized bool) {
	var researchType, confidence, rationale, characteristics string
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "RESEARCH_TYPE:"):
			researchType = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "RESEARCH_TYPE:")))
		case strings.HasPrefix(line, "CONFIDENCE:"):
			confidence = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")))
		case strings.HasPrefix(line, "RATIONALE:"):
			rationale = strings.TrimSpace(strings.TrimPrefix(line, "RATIONALE:"))
		case strings.HasPrefix(line, "KEY_CHARACTERISTICS:"):
			characteristics = strings.TrimSpace(strings.TrimPrefix(line, "KEY_CHARACTERISTICS:"))
		}
	}

	cls = domain.ResearchClassification{
		ResearchType:    domain.ResearchType(researchType),
		Confidence:      domain.Confidence(confidence),
		Rationale:       rationale,
		Characteristics: characteristics,
	}
	if _, known := domain.ProfileFor(cls.ResearchType); !known {
		cls.ResearchType = domain.FallbackResearchType
		cls.Confidence = domain.ConfidenceLow
		cls.Rationale = fallbackRationale
		return cls, researchType, false
	}
	return cls, researchType, true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
