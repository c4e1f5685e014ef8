package usecase

import (
	"testing"
)

func TestExtractPaperStatsCountsWordsAndSentences(t *testing.T) {
	stats := ExtractPaperStats("One two three. Four five?\n\nSix seven!")
	if stats.WordCount != 7 {
		t.Fatalf("expected 7 words, got %d", stats.WordCount)
	}
	if stats.SentenceCount != 3 {
		t.Fatalf("expected 3 sentences, got %d", stats.SentenceCount)
	}
	if stats.ParagraphCount != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", stats.ParagraphCount)
	}
}

func TestExtractPaperStatsCountsCitations(t *testing.T) {
	stats := ExtractPaperStats("As shown in [1] and [23], and earlier (Smith et al. 2009).")
	if stats.CitationCount != 3 {
		t.Fatalf("expected 3 citations, got %d", stats.CitationCount)
	}
}

func TestExtractPaperStatsCountsFiguresAndTables(t *testing.T) {
	stats := ExtractPaperStats("See Figure 1, fig. 2 and Fig 3. Compare Table 1 with table 2.")
	if stats.FigureCount != 3 {
		t.Fatalf("expected 3 figures, got %d", stats.FigureCount)
	}
	if stats.TableCount != 2 {
		t.Fatalf("expected 2 tables, got %d", stats.TableCount)
	}
}

func TestExtractPaperStatsCountsEquationsAndTerms(t *testing.T) {
	stats := ExtractPaperStats("We fit a regression and an ANOVA with p < 0.05 where a = b ± c.")
	if stats.EquationCount != 3 {
		t.Fatalf("expected 3 equation symbols, got %d", stats.EquationCount)
	}
	if stats.StatisticalTermCount != 3 {
		t.Fatalf("expected 3 statistical terms, got %d", stats.StatisticalTermCount)
	}
}

func TestExtractPaperStatsCountsMethodologyTerms(t *testing.T) {
	stats := ExtractPaperStats("The methodology and framework guided this experiment.")
	if stats.MethodologyTermCount != 3 {
		t.Fatalf("expected 3 methodology terms, got %d", stats.MethodologyTermCount)
	}
}

func TestExtractPaperStatsCountsSectionHeaders(t *testing.T) {
	stats := ExtractPaperStats("intro\n1. Introduction\nbody text 42.\nConclusion\nend")
	if stats.SectionCount != 2 {
		t.Fatalf("expected 2 section headers, got %d", stats.SectionCount)
	}
}

func TestExtractPaperStatsCommonWordsSkipStopwordsAndShortTerms(t *testing.T) {
	stats := ExtractPaperStats("data data data model model the the and ab")
	if len(stats.CommonWords) != 2 {
		t.Fatalf("expected 2 common words, got %v", stats.CommonWords)
	}
	if stats.CommonWords[0].Word != "data" || stats.CommonWords[0].Count != 3 {
		t.Fatalf("expected data x3 first, got %+v", stats.CommonWords[0])
	}
	if stats.CommonWords[1].Word != "model" || stats.CommonWords[1].Count != 2 {
		t.Fatalf("expected model x2 second, got %+v", stats.CommonWords[1])
	}
}

func TestExtractPaperStatsCommonWordTiesKeepFirstSeenOrder(t *testing.T) {
	stats := ExtractPaperStats("alpha beta alpha beta")
	if stats.CommonWords[0].Word != "alpha" || stats.CommonWords[1].Word != "beta" {
		t.Fatalf("expected first-seen tie order, got %v", stats.CommonWords)
	}
}

func TestTopCommonWordsClampsToAvailable(t *testing.T) {
	stats := ExtractPaperStats("alpha beta alpha")
	top := stats.TopCommonWords(10)
	if len(top) != 2 {
		t.Fatalf("expected 2 top words, got %d", len(top))
	}
}
