package evaluator

import "math"

// Scorer rates one dimension of an answer on a 0–10 scale. It may also
// name a strength (score high) or an improvement (score low); either may
// be empty.
type Scorer interface {
	Dimension() Dimension
	Score(in *Input) (score float64, strength, improvement string)
}

// DefaultScorers returns one scorer per breakdown dimension.
func DefaultScorers() []Scorer {
	return []Scorer{
		&TechnicalScorer{},
		&ClarityScorer{},
		&ConfidenceScorer{},
		&RelevanceScorer{},
		&StructureScorer{},
	}
}

// Score thresholds for naming strengths and improvements.
const (
	StrengthThreshold    = 7.0
	ImprovementThreshold = 5.0
)

// wordTarget is the answer length at which depth stops adding points.
func wordTarget(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return 40
	case "hard":
		return 110
	default:
		return 70
	}
}

func isBehavioral(c Criteria) bool {
	return c.Type == "behavioral" || c.Type == "hr"
}

// TechnicalScorer rewards domain vocabulary and depth proportional to the
// difficulty.
type TechnicalScorer struct{}

func (s *TechnicalScorer) Dimension() Dimension { return DimTechnical }

func (s *TechnicalScorer) Score(in *Input) (float64, string, string) {
	seen := map[string]bool{}
	for _, w := range in.Words {
		if technicalTerms[w] {
			seen[w] = true
		}
	}

	termsWanted := 4.0
	switch {
	case isBehavioral(in.Criteria):
		termsWanted = 2
	case in.Criteria.Difficulty == "hard":
		termsWanted = 6
	case in.Criteria.Difficulty == "easy":
		termsWanted = 3
	}

	depth := math.Min(float64(len(in.Words))/wordTarget(in.Criteria.Difficulty), 1)
	vocab := math.Min(float64(len(seen))/termsWanted, 1)
	score := clamp(1+5*vocab+4*depth, 0, 10)

	return rated(score,
		"Uses precise technical vocabulary with good depth",
		"Go deeper on the technical details and name the specific tools or techniques involved")
}

// ClarityScorer rewards moderately sized sentences and penalizes filler.
type ClarityScorer struct{}

func (s *ClarityScorer) Dimension() Dimension { return DimClarity }

func (s *ClarityScorer) Score(in *Input) (float64, string, string) {
	if len(in.Sentences) == 0 {
		return 0, "", "Answer in complete sentences"
	}
	avg := float64(len(in.Words)) / float64(len(in.Sentences))

	score := 10.0
	switch {
	case avg < 6:
		score -= (6 - avg) * 0.8
	case avg > 25:
		score -= (avg - 25) * 0.3
	}
	score -= math.Min(float64(countPhrases(in.Answer, fillerPhrases)), 4)

	return rated(clamp(score, 0, 10),
		"Clear, well-paced explanation",
		"Use shorter, more direct sentences and cut filler words")
}

// ConfidenceScorer looks at hedging versus ownership language.
type ConfidenceScorer struct{}

func (s *ConfidenceScorer) Dimension() Dimension { return DimConfidence }

func (s *ConfidenceScorer) Score(in *Input) (float64, string, string) {
	hedges := float64(countPhrases(in.Answer, hedgePhrases))
	assertive := float64(countPhrases(in.Answer, assertivePhrases))

	score := 6 - math.Min(hedges*1.2, 5) + math.Min(assertive*0.8, 3)
	if len(in.Words) < 10 {
		score = math.Min(score, 4)
	}

	return rated(clamp(score, 0, 10),
		"Speaks with ownership and conviction",
		"State your position directly and own your decisions instead of hedging")
}

// RelevanceScorer measures how much of the question's content the answer
// addresses.
type RelevanceScorer struct{}

func (s *RelevanceScorer) Dimension() Dimension { return DimRelevance }

func (s *RelevanceScorer) Score(in *Input) (float64, string, string) {
	var score float64
	if len(in.QWords) == 0 {
		score = 6
	} else {
		answer := map[string]bool{}
		for _, w := range in.Words {
			answer[w] = true
		}
		hit := 0
		for _, w := range in.QWords {
			if answer[w] {
				hit++
			}
		}
		coverage := float64(hit) / float64(len(in.QWords))
		score = 2 + 8*math.Min(coverage*1.5, 1)
	}
	if len(in.Words) < 5 {
		score = math.Min(score, 3)
	}

	return rated(score,
		"Stays focused on what was asked",
		"Address the question more directly before adding context")
}

// StructureScorer rewards sequencing and, for behavioral interviews, the
// situation/task/action/result shape.
type StructureScorer struct{}

func (s *StructureScorer) Dimension() Dimension { return DimStructure }

func (s *StructureScorer) Score(in *Input) (float64, string, string) {
	var score float64
	if isBehavioral(in.Criteria) {
		star := distinctPhrases(in.Answer, starPhrases)
		score = 2 + 2*math.Min(float64(star), 4)
	} else {
		conn := distinctPhrases(in.Answer, connectorPhrases)
		score = 3 + 1.5*math.Min(float64(conn), 4)
	}
	if len(in.Sentences) >= 3 {
		score++
	}

	improvement := "Organize the answer: lead with the main point, then support it step by step"
	if isBehavioral(in.Criteria) {
		improvement = "Use the STAR format: situation, task, action, result"
	}
	return rated(clamp(score, 0, 10), "Well-organized answer that is easy to follow", improvement)
}

func distinctPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if countPhrases(text, []string{p}) > 0 {
			n++
		}
	}
	return n
}

// rated attaches the strength or improvement text matching score.
func rated(score float64, strength, improvement string) (float64, string, string) {
	switch {
	case score >= StrengthThreshold:
		return score, strength, ""
	case score < ImprovementThreshold:
		return score, "", improvement
	}
	return score, "", ""
}
