// Package evaluator scores interview answers with deterministic heuristics.
// It never fails and needs no external services, so every interview turn
// has a usable score even when no AI provider is configured.
package evaluator

import (
	"math"
	"strings"
)

// Evaluator runs a fixed set of scorers and combines them.
type Evaluator struct {
	scorers []Scorer
}

// New creates an Evaluator with the default scorers.
func New() *Evaluator {
	return &Evaluator{scorers: DefaultScorers()}
}

// Evaluate scores answer against question using the default scorers.
func Evaluate(question, answer string, c Criteria) Result {
	return New().Evaluate(question, answer, c)
}

// Evaluate scores answer against question. It is total: any input,
// including an empty answer, produces a Result.
func (e *Evaluator) Evaluate(question, answer string, c Criteria) Result {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		focus := string(DimRelevance)
		return Result{
			Feedback:       "No answer was given.",
			Strengths:      []string{},
			Improvements:   []string{"Give an answer, even a partial one, so there is something to build on"},
			ShouldFollowUp: true,
			FollowUpFocus:  &focus,
		}
	}

	in := &Input{
		Question:  question,
		Answer:    answer,
		Criteria:  c,
		Words:     tokenize(answer),
		Sentences: sentences(answer),
		QWords:    contentWords(tokenize(question)),
	}

	res := Result{Strengths: []string{}, Improvements: []string{}}
	for _, s := range e.scorers {
		score, strength, improvement := s.Score(in)
		res.Breakdown.set(s.Dimension(), round1(score))
		if strength != "" {
			res.Strengths = append(res.Strengths, strength)
		}
		if improvement != "" {
			res.Improvements = append(res.Improvements, improvement)
		}
	}

	res.OverallScore = overall(res.Breakdown, c)

	weakest := weakestDimension(res.Breakdown)
	if res.Breakdown.Get(weakest) < ImprovementThreshold {
		focus := string(weakest)
		res.ShouldFollowUp = true
		res.FollowUpFocus = &focus
	}

	res.Feedback = feedback(res)
	return res
}

// weights returns per-dimension weights summing to 1.
func weights(c Criteria) map[Dimension]float64 {
	if isBehavioral(c) {
		return map[Dimension]float64{
			DimTechnical: 0.10, DimClarity: 0.20, DimConfidence: 0.20,
			DimRelevance: 0.20, DimStructure: 0.30,
		}
	}
	return map[Dimension]float64{
		DimTechnical: 0.35, DimClarity: 0.15, DimConfidence: 0.15,
		DimRelevance: 0.20, DimStructure: 0.15,
	}
}

// overall combines the 0–10 breakdown into a 0–100 score.
func overall(b Breakdown, c Criteria) float64 {
	w := weights(c)
	var sum float64
	for _, d := range dimensionOrder {
		sum += b.Get(d) * w[d]
	}
	return math.Round(Normalize(sum, ScaleTen))
}

var dimensionOrder = []Dimension{DimTechnical, DimClarity, DimConfidence, DimRelevance, DimStructure}

// weakestDimension returns the lowest-scoring dimension; ties resolve in
// dimensionOrder.
func weakestDimension(b Breakdown) Dimension {
	weakest := dimensionOrder[0]
	for _, d := range dimensionOrder[1:] {
		if b.Get(d) < b.Get(weakest) {
			weakest = d
		}
	}
	return weakest
}

func feedback(r Result) string {
	var b strings.Builder
	switch {
	case r.OverallScore >= 80:
		b.WriteString("Strong answer.")
	case r.OverallScore >= 60:
		b.WriteString("Good answer with room to grow.")
	case r.OverallScore >= 40:
		b.WriteString("A partial answer.")
	default:
		b.WriteString("This answer needs more work.")
	}
	if len(r.Strengths) > 0 {
		b.WriteString(" " + r.Strengths[0] + ".")
	}
	if len(r.Improvements) > 0 {
		b.WriteString(" Next time: " + lowerFirst(r.Improvements[0]) + ".")
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
