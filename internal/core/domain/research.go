package domain

// ResearchType is one label from the closed taxonomy of paper categories.
type ResearchType string

const (
	TypeEmpiricalQuantitative ResearchType = "empirical_quantitative"
	TypeEmpiricalQualitative  ResearchType = "empirical_qualitative"
	TypeTheoretical           ResearchType = "theoretical"
	TypeReview                ResearchType = "review"
	TypeMethodology           ResearchType = "methodology"
	TypeCaseStudy             ResearchType = "case_study"
	TypeSimulation            ResearchType = "simulation"
	TypeDesignScience         ResearchType = "design_science"
	TypeWhitepaper            ResearchType = "whitepaper"
	TypePositionPaper         ResearchType = "position_paper"
)

// FallbackResearchType is assigned when classification output cannot be
// mapped onto a known label.
const FallbackResearchType = TypeEmpiricalQuantitative

// ResearchProfile describes what a research type is and which qualities an
// evaluation of that type should weigh.
type ResearchProfile struct {
	Description     string
	EvaluationFocus []string
}

var researchProfiles = map[ResearchType]ResearchProfile{
	TypeEmpiricalQuantitative: {
		Description:     "Empirical research with quantitative methods, statistical analysis, and hypothesis testing",
		EvaluationFocus: []string{"statistical validity", "sample size", "methodology rigor", "reproducibility", "generalizability", "effect size", "power analysis"},
	},
	TypeEmpiricalQualitative: {
		Description:     "Empirical research with qualitative methods such as interviews, case studies, or ethnography",
		EvaluationFocus: []string{"methodological rigor", "trustworthiness", "credibility", "transferability", "dependability", "confirmability", "reflexivity", "thick description"},
	},
	TypeTheoretical: {
		Description:     "Theoretical research proposing new concepts, frameworks, or models without empirical testing",
		EvaluationFocus: []string{"logical consistency", "conceptual clarity", "theoretical contribution", "explanatory power", "parsimony", "scope", "utility"},
	},
	TypeReview: {
		Description:     "Literature review or meta-analysis synthesizing existing research",
		EvaluationFocus: []string{"comprehensiveness", "systematic approach", "quality assessment", "synthesis methods", "research gap identification"},
	},
	TypeMethodology: {
		Description:     "Research proposing new research methods, tools, or techniques",
		EvaluationFocus: []string{"novelty", "validity", "reliability", "usability", "efficiency", "comparison with existing methods"},
	},
	TypeCaseStudy: {
		Description:     "In-depth analysis of a specific case, organization, or phenomenon",
		EvaluationFocus: []string{"depth of analysis", "contextual understanding", "transferability of insights", "practical implications"},
	},
	TypeSimulation: {
		Description:     "Research using computational models or simulations",
		EvaluationFocus: []string{"model validity", "parameter justification", "sensitivity analysis", "comparison with real-world data", "computational efficiency"},
	},
	TypeDesignScience: {
		Description:     "Research designing and evaluating artifacts, systems, or solutions",
		EvaluationFocus: []string{"problem relevance", "design quality", "evaluation rigor", "utility", "novelty", "practical implications"},
	},
	TypeWhitepaper: {
		Description:     "Technical document describing a problem, solution, or technology, often with preliminary results or proof of concept",
		EvaluationFocus: []string{"problem definition clarity", "solution feasibility", "technical soundness", "preliminary validation", "limitations acknowledgment"},
	},
	TypePositionPaper: {
		Description:     "Paper presenting an opinion, viewpoint, or argument on a topic",
		EvaluationFocus: []string{"argument strength", "evidence quality", "consideration of alternatives", "implications"},
	},
}

// researchTypeOrder fixes the enumeration order used in prompts so prompt
// construction stays reproducible across runs.
var researchTypeOrder = []ResearchType{
	TypeEmpiricalQuantitative,
	TypeEmpiricalQualitative,
	TypeTheoretical,
	TypeReview,
	TypeMethodology,
	TypeCaseStudy,
	TypeSimulation,
	TypeDesignScience,
	TypeWhitepaper,
	TypePositionPaper,
}

// ResearchTypes returns the taxonomy labels in their canonical order.
func ResearchTypes() []ResearchType {
	out := make([]ResearchType, len(researchTypeOrder))
	copy(out, researchTypeOrder)
	return out
}

// ProfileFor returns the profile for a known label. The second return value
// reports whether the label belongs to the taxonomy.
func ProfileFor(t ResearchType) (ResearchProfile, bool) {
	p, ok := researchProfiles[t]
	return p, ok
}
