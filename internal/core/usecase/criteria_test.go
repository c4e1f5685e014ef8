package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/avezina/paperlens/internal/core/domain"
)

const criteriaResponse = `METHODOLOGY_CRITERIA:
1. Model construction is justified
2. Parameters trace back to data

ROBUSTNESS_CRITERIA:
1. Sensitivity analysis covers key parameters

SIGNIFICANCE_CRITERIA:
1. Model enables new predictions
2. Comparison with real-world observations
3. Practical applicability`

func TestDeriveCriteriaParsesNumberedSections(t *testing.T) {
	generator := &generatorFake{responses: []string{criteriaResponse}}
	classifier := newTestClassifier(generator)

	criteria, err := classifier.DeriveCriteria(context.Background(), domain.TypeSimulation, domain.PaperStats{WordCount: 42})
	if err != nil {
		t.Fatalf("DeriveCriteria() error = %v", err)
	}
	if criteria.ResearchType != domain.TypeSimulation {
		t.Fatalf("expected simulation criteria, got %s", criteria.ResearchType)
	}
	if criteria.TypeDescription == "" {
		t.Fatalf("expected type description to be filled")
	}
	if len(criteria.MethodologyCriteria) != 2 || criteria.MethodologyCriteria[0] != "Model construction is justified" {
		t.Fatalf("unexpected methodology criteria %v", criteria.MethodologyCriteria)
	}
	if len(criteria.RobustnessCriteria) != 1 {
		t.Fatalf("unexpected robustness criteria %v", criteria.RobustnessCriteria)
	}
	if len(criteria.SignificanceCriteria) != 3 || criteria.SignificanceCriteria[2] != "Practical applicability" {
		t.Fatalf("unexpected significance criteria %v", criteria.SignificanceCriteria)
	}
}

func TestDeriveCriteriaMalformedResponseYieldsEmptyLists(t *testing.T) {
	generator := &generatorFake{responses: []string{"I could not produce a list in that shape."}}
	classifier := newTestClassifier(generator)

	criteria, err := classifier.DeriveCriteria(context.Background(), domain.TypeReview, domain.PaperStats{})
	if err != nil {
		t.Fatalf("DeriveCriteria() error = %v", err)
	}
	if len(criteria.MethodologyCriteria) != 0 || len(criteria.RobustnessCriteria) != 0 || len(criteria.SignificanceCriteria) != 0 {
		t.Fatalf("expected empty criteria lists, got %+v", criteria)
	}
}

func TestDeriveCriteriaIgnoresNumberedLinesOutsideSections(t *testing.T) {
	generator := &generatorFake{responses: []string{"1. Orphan line before any header\nMETHODOLOGY_CRITERIA:\n1. Real criterion"}}
	classifier := newTestClassifier(generator)

	criteria, err := classifier.DeriveCriteria(context.Background(), domain.TypeReview, domain.PaperStats{})
	if err != nil {
		t.Fatalf("DeriveCriteria() error = %v", err)
	}
	if len(criteria.MethodologyCriteria) != 1 || criteria.MethodologyCriteria[0] != "Real criterion" {
		t.Fatalf("expected only in-section criteria, got %v", criteria.MethodologyCriteria)
	}
}

func TestDeriveCriteriaRejectsUnknownType(t *testing.T) {
	generator := &generatorFake{}
	classifier := newTestClassifier(generator)

	_, err := classifier.DeriveCriteria(context.Background(), domain.ResearchType("astrology"), domain.PaperStats{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error kind, got %v", err)
	}
	if len(generator.calls) != 0 {
		t.Fatalf("expected no generate calls for unknown type, got %d", len(generator.calls))
	}
}

func TestDeriveCriteriaPromptCarriesProfileAndStats(t *testing.T) {
	generator := &generatorFake{responses: []string{criteriaResponse}}
	classifier := newTestClassifier(generator)

	stats := domain.PaperStats{WordCount: 1234, CitationCount: 7, StatisticalTermCount: 3}
	if _, err := classifier.DeriveCriteria(context.Background(), domain.TypeEmpiricalQuantitative, stats); err != nil {
		t.Fatalf("DeriveCriteria() error = %v", err)
	}
	prompt := generator.calls[0].prompt
	for _, want := range []string{
		"research paper of type: empirical_quantitative",
		"statistical validity",
		"- Word count: 1234",
		"- Citation count: 7",
		"- Statistical term count: 3",
		"METHODOLOGY_CRITERIA:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}
