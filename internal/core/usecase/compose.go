package usecase

import (
	"fmt"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
)

// ComposeAnalysisPrompt renders ranked excerpts and a question into one
// instruction block. Formatting only; no retrieval logic lives here.
func ComposeAnalysisPrompt(question string, results []domain.RankedResult, overview string) string {
	var b strings.Builder
	b.WriteString("You are analyzing a research paper. ")
	if overview != "" {
		fmt.Fprintf(&b, "The paper is about: %s\n\n", overview)
	}
	b.WriteString("Based on the following excerpts from the paper:\n\n")
	for i, result := range results {
		fmt.Fprintf(&b, "[Excerpt %d from %s]\n%s\n\n", i+1, result.Title, result.Content)
	}
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Please provide a detailed and accurate answer based strictly on the provided excerpts. ")
	b.WriteString("If the information needed is not contained in the excerpts, acknowledge this limitation rather than speculating.")
	return b.String()
}
