package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
)

// DeriveCriteria asks the generation model for type-tailored evaluation
// criteria across the three dimensions. A response that does not follow
// the numbered-list format parses to empty criterion lists rather than
// an error.
func (c *ResearchClassifier) DeriveCriteria(ctx context.Context, researchType domain.ResearchType, stats domain.PaperStats) (domain.EvaluationCriteria, error) {
	profile, known := domain.ProfileFor(researchType)
	if !known {
		return domain.EvaluationCriteria{}, domain.WrapError(domain.ErrInvalidInput, "derive criteria",
			fmt.Errorf("unknown research type %q", researchType))
	}

	prompt := buildCriteriaPrompt(researchType, profile, stats)
	raw, err := c.analysis.Analyze(ctx, "Generate evaluation criteria", prompt)
	if err != nil {
		return domain.EvaluationCriteria{}, err
	}

	methodology, robustness, significance := parseCriteriaSections(raw)
	if len(methodology) == 0 && len(robustness) == 0 && len(significance) == 0 {
		c.logger.Warn("criteria_parse_empty", "research_type", string(researchType))
	}
	return domain.EvaluationCriteria{
		ResearchType:         researchType,
		TypeDescription:      profile.Description,
		MethodologyCriteria:  methodology,
		RobustnessCriteria:   robustness,
		SignificanceCriteria: significance,
	}, nil
}

func buildCriteriaPrompt(researchType domain.ResearchType, profile domain.ResearchProfile, stats domain.PaperStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I need to create tailored evaluation criteria for a research paper of type: %s (%s).\n\n",
		researchType, profile.Description)
	fmt.Fprintf(&b, "This type of research should typically focus on: %s.\n\n",
		strings.Join(profile.EvaluationFocus, ", "))

	b.WriteString("Paper statistics:\n")
	fmt.Fprintf(&b, "- Word count: %d\n", stats.WordCount)
	fmt.Fprintf(&b, "- Citation count: %d\n", stats.CitationCount)
	fmt.Fprintf(&b, "- Figure count: %d\n", stats.FigureCount)
	fmt.Fprintf(&b, "- Table count: %d\n", stats.TableCount)
	fmt.Fprintf(&b, "- Equation count: %d\n", stats.EquationCount)
	fmt.Fprintf(&b, "- Statistical term count: %d\n", stats.StatisticalTermCount)
	fmt.Fprintf(&b, "- Methodology term count: %d\n", stats.MethodologyTermCount)

	b.WriteString(`
Please generate specific evaluation criteria for this paper in three key aspects:

1. Methodology evaluation criteria:
   - What specific aspects of the methodology should be evaluated for this type of research?
   - What methodological strengths and weaknesses should be looked for?
   - What methodological standards are appropriate for this research type?

2. Robustness evaluation criteria:
   - How should the reliability and validity of this type of research be assessed?
   - What specific threats to validity are most relevant for this research type?
   - What standards of evidence are appropriate for this research type?

3. Significance evaluation criteria:
   - How should the contribution and impact of this type of research be evaluated?
   - What types of contributions are most valuable for this research type?
   - What standards for novelty and importance apply to this research type?

For each aspect, provide 5-7 specific criteria that are tailored to this research type.

Format your response as:
METHODOLOGY_CRITERIA:
1. [criterion]
2. [criterion]
...

ROBUSTNESS_CRITERIA:
1. [criterion]
2. [criterion]
...

SIGNIFICANCE_CRITERIA:
1. [criterion]
2. [criterion]
...`)

	return b.String()
}

// parseCriteriaSections collects numbered entries under each section
// header. Lines outside a recognized section or without the "N. text"
// shape are skipped.
func parseCriteriaSections(raw string) (methodology, robustness, significance []string) {
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "METHODOLOGY_CRITERIA:"):
			section = "methodology"
		case strings.HasPrefix(line, "ROBUSTNESS_CRITERIA:"):
			section = "robustness"
		case strings.HasPrefix(line, "SIGNIFICANCE_CRITERIA:"):
			section = "significance"
		case isNumberedItem(line):
			_, criterion, _ := strings.Cut(line, ". ")
			criterion = strings.TrimSpace(criterion)
			if criterion == "" {
				continue
			}
			switch section {
			case "methodology":
				methodology = append(methodology, criterion)
			case "robustness":
				robustness = append(robustness, criterion)
			case "significance":
				significance = append(significance, criterion)
			}
		}
	}
	return methodology, robustness, significance
}

func isNumberedItem(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '9' && strings.Contains(line, ". ")
}
