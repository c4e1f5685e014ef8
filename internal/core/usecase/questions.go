package usecase

import "github.com/avezina/paperlens/internal/core/domain"

// dimension bundles everything one evaluation dimension needs: the base
// question set, type-specific follow-up questions, the keywords counted
// for the synthesis prompt, and the closing aspects the verdict must cover.
type dimension struct {
	kind    domain.EvaluationKind
	topic   string
	noun    string
	closing string

	questions []string
	extras    map[domain.ResearchType][]string
	keywords  []string
	aspects   []string

	criteriaFor func(domain.EvaluationCriteria) []string
}

// questionsFor is the base set plus any follow-ups registered for the
// research type. Types without an entry get no follow-ups.
func (d dimension) questionsFor(researchType domain.ResearchType) []string {
	questions := make([]string, 0, len(d.questions)+2)
	questions = append(questions, d.questions...)
	questions = append(questions, d.extras[researchType]...)
	return questions
}

var methodologyDimension = dimension{
	kind:    domain.EvaluationMethodology,
	topic:   "research methodology",
	noun:    "Methodology",
	closing: "the methodology",
	questions: []string{
		"What methods does this paper use?",
		"How is the experimental design structured?",
		"What data collection techniques are used?",
		"How does the paper analyze data?",
		"What are the limitations of the methodology?",
	},
	extras: map[domain.ResearchType][]string{
		domain.TypeEmpiricalQuantitative: {
			"What statistical methods are applied and are they appropriate?",
			"How are hypotheses formulated and tested?",
		},
		domain.TypeEmpiricalQualitative: {
			"How were participants selected and how was the data coded?",
		},
		domain.TypeSimulation: {
			"How is the simulation model constructed and parameterized?",
		},
		domain.TypeReview: {
			"What search and inclusion criteria govern the literature selection?",
		},
		domain.TypeDesignScience: {
			"How was the artifact designed and iterated?",
		},
	},
	keywords: []string{
		"method", "approach", "technique", "procedure", "experiment",
		"study", "analysis", "design", "protocol", "framework",
		"model", "algorithm", "implementation", "evaluation", "validation",
		"testing", "measurement", "assessment", "data collection", "sampling",
	},
	aspects: []string{
		"Appropriateness of the methods for the research questions",
		"Experimental design quality",
		"Data collection and analysis techniques",
		"Methodological limitations and biases",
		"Overall assessment of methodological rigor",
	},
	criteriaFor: func(c domain.EvaluationCriteria) []string { return c.MethodologyCriteria },
}

var robustnessDimension = dimension{
	kind:    domain.EvaluationRobustness,
	topic:   "research robustness",
	noun:    "Robustness",
	closing: "the robustness",
	questions: []string{
		"How reliable are the results in this paper?",
		"What statistical methods are used to ensure validity?",
		"How does the paper address potential confounding variables?",
		"What limitations or threats to validity are discussed?",
		"How generalizable are the findings of this paper?",
	},
	extras: map[domain.ResearchType][]string{
		domain.TypeEmpiricalQuantitative: {
			"What effect sizes and confidence intervals are reported?",
			"How is statistical power addressed?",
		},
		domain.TypeEmpiricalQualitative: {
			"How is the trustworthiness of the qualitative analysis established?",
		},
		domain.TypeSimulation: {
			"How is the simulation validated against real-world data?",
			"What sensitivity analyses are performed?",
		},
		domain.TypeReview: {
			"How is the quality of the included studies assessed?",
		},
	},
	keywords: []string{
		"robust", "reliability", "validity", "reproducibility", "replication",
		"generalizability", "significance", "p-value", "confidence interval", "effect size",
		"power", "sample size", "bias", "confound", "limitation",
		"threat", "error", "uncertainty", "variance", "outlier",
	},
	aspects: []string{
		"Reliability and reproducibility of the results",
		"Statistical significance and effect sizes",
		"Treatment of confounding variables and biases",
		"Generalizability of findings",
		"Overall assessment of research robustness",
	},
	criteriaFor: func(c domain.EvaluationCriteria) []string { return c.RobustnessCriteria },
}

var significanceDimension = dimension{
	kind:    domain.EvaluationSignificance,
	topic:   "research significance and innovation",
	noun:    "Significance",
	closing: "the significance and innovation",
	questions: []string{
		"What is the main contribution of this paper?",
		"How does this paper advance the field?",
		"What novel ideas or approaches does this paper introduce?",
		"What is the potential impact of this research?",
		"How does this paper compare to related work?",
	},
	extras: map[domain.ResearchType][]string{
		domain.TypeTheoretical: {
			"What explanatory power does the proposed framework add over existing theory?",
		},
		domain.TypeWhitepaper: {
			"How feasible is the proposed solution in practice?",
		},
		domain.TypeDesignScience: {
			"What utility does the artifact demonstrate in its evaluation?",
		},
		domain.TypePositionPaper: {
			"How compelling is the argument relative to the alternatives?",
		},
	},
	keywords: []string{
		"contribution", "novel", "new", "advance", "improve",
		"enhance", "outperform", "state-of-the-art", "breakthrough", "innovation",
		"impact", "important", "significant", "major", "key",
		"crucial", "critical", "essential", "valuable", "useful",
	},
	aspects: []string{
		"Importance of the research question",
		"Novelty of approach or findings",
		"Advancement of knowledge in the field",
		"Potential impact on theory or practice",
		"Overall assessment of research significance",
	},
	criteriaFor: func(c domain.EvaluationCriteria) []string { return c.SignificanceCriteria },
}
