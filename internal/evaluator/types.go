package evaluator

// Criteria identifies the interview an answer belongs to.
type Criteria struct {
	Role       string `json:"role"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
}

// Dimension names one axis of the score breakdown.
type Dimension string

const (
	DimTechnical  Dimension = "technical"
	DimClarity    Dimension = "clarity"
	DimConfidence Dimension = "confidence"
	DimRelevance  Dimension = "relevance"
	DimStructure  Dimension = "structure"
)

// Breakdown holds per-dimension scores on a 0–10 scale.
type Breakdown struct {
	Technical  float64 `json:"technical"`
	Clarity    float64 `json:"clarity"`
	Confidence float64 `json:"confidence"`
	Relevance  float64 `json:"relevance"`
	Structure  float64 `json:"structure"`
}

// Get returns the score for d.
func (b Breakdown) Get(d Dimension) float64 {
	switch d {
	case DimTechnical:
		return b.Technical
	case DimClarity:
		return b.Clarity
	case DimConfidence:
		return b.Confidence
	case DimRelevance:
		return b.Relevance
	case DimStructure:
		return b.Structure
	}
	return 0
}

func (b *Breakdown) set(d Dimension, v float64) {
	switch d {
	case DimTechnical:
		b.Technical = v
	case DimClarity:
		b.Clarity = v
	case DimConfidence:
		b.Confidence = v
	case DimRelevance:
		b.Relevance = v
	case DimStructure:
		b.Structure = v
	}
}

// Result is the deterministic evaluation of one answer. It is produced
// fresh per answer and never mutated afterwards.
type Result struct {
	// OverallScore is on the 0–100 scale.
	OverallScore float64   `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`

	ShouldFollowUp bool `json:"shouldFollowUp"`
	// FollowUpFocus is the weakest dimension when a follow-up is advised.
	FollowUpFocus *string `json:"followUpFocus"`
}

// Input is what scorers see: the raw texts plus pre-tokenized forms.
type Input struct {
	Question  string
	Answer    string
	Criteria  Criteria
	Words     []string // lower-cased answer tokens
	Sentences []string
	QWords    []string // question content words, stop words removed
}
