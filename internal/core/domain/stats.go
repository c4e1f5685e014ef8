package domain

// WordCount is one term with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PaperStats holds surface statistics extracted from the raw paper text.
// They feed criteria and synthesis prompts as supporting evidence.
type PaperStats struct {
	WordCount            int         `json:"word_count"`
	SentenceCount        int         `json:"sentence_count"`
	ParagraphCount       int         `json:"paragraph_count"`
	CitationCount        int         `json:"citation_count"`
	FigureCount          int         `json:"figure_count"`
	TableCount           int         `json:"table_count"`
	EquationCount        int         `json:"equation_count"`
	StatisticalTermCount int         `json:"statistical_term_count"`
	MethodologyTermCount int         `json:"methodology_term_count"`
	SectionCount         int         `json:"section_count"`
	CommonWords          []WordCount `json:"common_words"`
}

// TopCommonWords returns at most n of the most common terms.
func (s PaperStats) TopCommonWords(n int) []WordCount {
	if n > len(s.CommonWords) {
		n = len(s.CommonWords)
	}
	return s.CommonWords[:n]
}
