package domain

import "fmt"

type Chunk struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	StartPos int    `json:"start_pos"`
	EndPos   int    `json:"end_pos"`
}

// IndexEntry pairs a chunk with its embedding vector. Entries keep the
// chunk's ordinal position and share one vector dimension per index.
type IndexEntry struct {
	Chunk  Chunk
	Vector []float32
}

// RankedResult is a retrieved chunk with its similarity score. Scores may
// exceed [-1, 1] after heuristic boosting.
type RankedResult struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	StartPos   int     `json:"start_pos"`
	EndPos     int     `json:"end_pos"`
	Similarity float64 `json:"similarity"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type ResearchClassification struct {
	ResearchType    ResearchType `json:"research_type"`
	Confidence      Confidence   `json:"confidence"`
	Rationale       string       `json:"rationale"`
	Characteristics string       `json:"characteristics"`
}

type EvaluationCriteria struct {
	ResearchType         ResearchType `json:"research_type"`
	TypeDescription      string       `json:"type_description"`
	MethodologyCriteria  []string     `json:"methodology_criteria"`
	RobustnessCriteria   []string     `json:"robustness_criteria"`
	SignificanceCriteria []string     `json:"significance_criteria"`
}

// DimensionResult holds one question and its analysis, accumulated per
// evaluation dimension before synthesis.
type DimensionResult struct {
	Query    string `json:"query"`
	Analysis string `json:"analysis"`
}

type EvaluationKind string

const (
	EvaluationMethodology   EvaluationKind = "methodology"
	EvaluationRobustness    EvaluationKind = "robustness"
	EvaluationSignificance  EvaluationKind = "significance"
	EvaluationComprehensive EvaluationKind = "comprehensive"
)

// EvaluationOutcome is the result of one full evaluation run over a
// fetched document.
type EvaluationOutcome struct {
	ID             string                 `json:"id"`
	Source         string                 `json:"source"`
	Kind           EvaluationKind         `json:"evaluation"`
	Classification ResearchClassification `json:"classification"`
	Report         string                 `json:"report"`
	Stats          PaperStats             `json:"stats"`
	ChunkCount     int                    `json:"chunk_count"`
}

func ParseEvaluationKind(s string) (EvaluationKind, error) {
	switch EvaluationKind(s) {
	case EvaluationMethodology, EvaluationRobustness, EvaluationSignificance, EvaluationComprehensive:
		return EvaluationKind(s), nil
	default:
		return "", WrapError(ErrInvalidInput, "parse evaluation kind", fmt.Errorf("unknown evaluation %q", s))
	}
}
