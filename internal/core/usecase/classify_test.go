package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/avezina/paperlens/internal/core/domain"
)

const abstractedPaper = "Paper Title\n\nAbstract\nWe present a new method.\nIt works well.\n\n1. Introduction\nBody."

func newTestClassifier(generator *generatorFake) *ResearchClassifier {
	return NewResearchClassifier(NewAnalysisClient(generator, fastRetryPolicy(3), nil), nil)
}

func TestExtractAbstractFindsLabeledSection(t *testing.T) {
	abstract := extractAbstract(abstractedPaper)
	if abstract != "We present a new method. It works well." {
		t.Fatalf("expected normalized abstract, got %q", abstract)
	}
}

func TestExtractAbstractFallsBackToFirstSubstantialParagraph(t *testing.T) {
	filler := strings.Repeat("This paragraph talks about the study in enough detail to qualify. ", 2)
	abstract := extractAbstract("Short title\n\n" + filler + "\n\nMore text.")
	if abstract != strings.TrimSpace(filler) {
		t.Fatalf("expected first substantial paragraph, got %q", abstract)
	}
}

func TestExtractAbstractSkipsFrontMatterParagraphs(t *testing.T) {
	keywords := "Keywords: retrieval, evaluation, ranking, classification, semantics, pipelines, research papers, analysis"
	opening := "This opening paragraph describes the problem setting and the contribution in considerably more than one hundred characters."
	abstract := extractAbstract("Title\n\n" + keywords + "\n\n" + opening)
	if abstract != opening {
		t.Fatalf("expected front matter skipped, got %q", abstract)
	}
}

func TestExtractAbstractEmptyWhenNothingQualifies(t *testing.T) {
	if abstract := extractAbstract("one\n\ntwo\n\nthree"); abstract != "" {
		t.Fatalf("expected empty abstract, got %q", abstract)
	}
}

func TestClassifyParsesTaggedResponse(t *testing.T) {
	generator := &generatorFake{responses: []string{
		"RESEARCH_TYPE: simulation\nCONFIDENCE: high\nRATIONALE: Uses computational models.\nKEY_CHARACTERISTICS: agent-based models",
	}}
	classifier := newTestClassifier(generator)

	cls, err := classifier.Classify(context.Background(), abstractedPaper, nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.ResearchType != domain.TypeSimulation {
		t.Fatalf("expected simulation, got %s", cls.ResearchType)
	}
	if cls.Confidence != domain.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", cls.Confidence)
	}
	if cls.Rationale != "Uses computational models." {
		t.Fatalf("expected rationale, got %q", cls.Rationale)
	}
	if cls.Characteristics != "agent-based models" {
		t.Fatalf("expected characteristics, got %q", cls.Characteristics)
	}
}

func TestClassifyFallsBackOnUnknownLabel(t *testing.T) {
	generator := &generatorFake{responses: []string{
		"RESEARCH_TYPE: astrology\nCONFIDENCE: high\nRATIONALE: stars",
	}}
	classifier := newTestClassifier(generator)

	cls, err := classifier.Classify(context.Background(), abstractedPaper, nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.ResearchType != domain.FallbackResearchType {
		t.Fatalf("expected fallback type, got %s", cls.ResearchType)
	}
	if cls.Confidence != domain.ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", cls.Confidence)
	}
	if cls.Rationale != fallbackRationale {
		t.Fatalf("expected fallback rationale, got %q", cls.Rationale)
	}
}

func TestClassifyFallsBackOnFreeformResponse(t *testing.T) {
	generator := &generatorFake{responses: []string{"It looks empirical to me."}}
	classifier := newTestClassifier(generator)

	cls, err := classifier.Classify(context.Background(), abstractedPaper, nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.ResearchType != domain.FallbackResearchType {
		t.Fatalf("expected fallback type, got %s", cls.ResearchType)
	}
}

func TestClassifyPromptListsTaxonomyAndAbstract(t *testing.T) {
	generator := &generatorFake{}
	classifier := newTestClassifier(generator)

	if _, err := classifier.Classify(context.Background(), abstractedPaper, nil); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	prompt := generator.calls[0].prompt
	for _, want := range []string{
		"I need to classify a research paper",
		"empirical_quantitative: Empirical research with quantitative methods",
		"position_paper: Paper presenting an opinion",
		"Here is the paper's abstract:",
		"We present a new method. It works well.",
		"RESEARCH_TYPE: [type]",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestClassifyPromptUsesIntroductionWhenNoAbstract(t *testing.T) {
	generator := &generatorFake{}
	classifier := newTestClassifier(generator)

	text := "Title page\n\n1. Introduction\nThis part explains the setting briefly.\n\nNext."
	if _, err := classifier.Classify(context.Background(), text, nil); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	prompt := generator.calls[0].prompt
	if !strings.Contains(prompt, "Abstract not found. Using paper excerpts instead:") {
		t.Fatalf("expected missing-abstract notice, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "From introduction:\nThis part explains the setting briefly.") {
		t.Fatalf("expected introduction excerpt, got:\n%s", prompt)
	}
}

func TestClassifyPromptUsesChunkExcerptsWithoutIntroduction(t *testing.T) {
	generator := &generatorFake{}
	classifier := newTestClassifier(generator)

	chunks := []domain.Chunk{
		{Content: strings.Repeat("a", 600)},
		{Content: "second chunk"},
		{Content: "third chunk"},
	}
	if _, err := classifier.Classify(context.Background(), "Tiny.\n\nAlso tiny.", chunks); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	prompt := generator.calls[0].prompt
	if !strings.Contains(prompt, "Excerpt 1:\n"+strings.Repeat("a", 500)) {
		t.Fatalf("expected first excerpt, got:\n%s", prompt)
	}
	if strings.Contains(prompt, strings.Repeat("a", 501)) {
		t.Fatalf("expected excerpt capped at 500 characters")
	}
	if !strings.Contains(prompt, "Excerpt 2:\nsecond chunk") {
		t.Fatalf("expected second excerpt, got:\n%s", prompt)
	}
	if strings.Contains(prompt, "Excerpt 3:") {
		t.Fatalf("expected at most two excerpts, got:\n%s", prompt)
	}
}

func TestClassifyPropagatesAnalysisError(t *testing.T) {
	generator := &generatorFake{failures: 5}
	classifier := NewResearchClassifier(NewAnalysisClient(generator, fastRetryPolicy(2), nil), nil)

	_, err := classifier.Classify(context.Background(), abstractedPaper, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrAnalysis) {
		t.Fatalf("expected analysis error kind, got %v", err)
	}
}
