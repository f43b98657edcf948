package interview

import "math"

// NextAction is the verdict of the decision engine.
type NextAction string

const (
	ActionNextQuestion NextAction = "next_question"
	ActionFollowUp     NextAction = "follow_up"
	ActionEndInterview NextAction = "end_interview"
)

// Thresholds for ending an interview early.
const (
	LowScoreThreshold       = 30.0
	LowScoreMinQuestion     = 2
	ExcellentScoreThreshold = 95.0
	ExcellentMinQuestion    = 3
)

// DecisionContext is recomputed every turn from the history and the
// latest evaluation. All scores are 0–100.
type DecisionContext struct {
	QuestionIndex  int       `json:"questionIndex"`
	TotalQuestions int       `json:"totalQuestions"`
	CurrentScore   float64   `json:"currentScore"`
	SessionScores  []float64 `json:"sessionScores"`
	AverageScore   float64   `json:"averageScore"`
	LastResponse   string    `json:"lastResponse"`
	Config         Config    `json:"config"`
}

// NewDecisionContext fills TotalQuestions and AverageScore from cfg and
// scores. The caller includes the current score in scores.
func NewDecisionContext(cfg Config, questionIndex int, currentScore float64, scores []float64, lastResponse string) DecisionContext {
	return DecisionContext{
		QuestionIndex:  questionIndex,
		TotalQuestions: cfg.TotalQuestions(),
		CurrentScore:   currentScore,
		SessionScores:  scores,
		AverageScore:   mean(scores),
		LastResponse:   lastResponse,
		Config:         cfg,
	}
}

// Decision is the decision engine's output.
type Decision struct {
	ShouldContinue bool       `json:"shouldContinue"`
	ShouldEnd      bool       `json:"shouldEnd"`
	NextAction     NextAction `json:"nextAction"`
	Reason         string     `json:"reason"`
	Confidence     float64    `json:"confidence"`
}

// FollowUpThreshold is the score below which an answer earns a follow-up.
func FollowUpThreshold(difficulty string) float64 {
	switch difficulty {
	case DifficultyEasy:
		return 50
	case DifficultyHard:
		return 70
	default:
		return 60
	}
}

// Decide applies the rules in order; the first match wins.
func Decide(dc DecisionContext) Decision {
	switch {
	case dc.QuestionIndex >= dc.TotalQuestions-1:
		return end("Maximum questions reached", 1.0)
	case dc.AverageScore < LowScoreThreshold && dc.QuestionIndex >= LowScoreMinQuestion:
		return end("Candidate performance below threshold", 0.8)
	case dc.AverageScore >= ExcellentScoreThreshold && dc.QuestionIndex >= ExcellentMinQuestion:
		return end("Candidate has been consistently excellent", 0.9)
	}

	if dc.QuestionIndex < dc.TotalQuestions-2 && dc.CurrentScore < FollowUpThreshold(dc.Config.Difficulty) {
		return Decision{
			ShouldContinue: true,
			NextAction:     ActionFollowUp,
			Reason:         "Answer scored below the follow-up threshold",
			Confidence:     0.7,
		}
	}

	return Decision{
		ShouldContinue: true,
		NextAction:     ActionNextQuestion,
		Reason:         "Proceeding to the next question",
		Confidence:     0.9,
	}
}

func end(reason string, confidence float64) Decision {
	return Decision{
		ShouldEnd:  true,
		NextAction: ActionEndInterview,
		Reason:     reason,
		Confidence: confidence,
	}
}

// Trend describes how scores move over a session.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Progress summarizes a session's scores.
type Progress struct {
	Average     float64 `json:"average"`
	Trend       Trend   `json:"trend"`
	Consistency float64 `json:"consistency"`
}

// MinScoresForTrend is the fewest scores that can show a trend.
const MinScoresForTrend = 4

// CalculateProgress returns the mean, the trend between the first and
// second halves, and a 0–1 consistency derived from the population
// standard deviation. For odd lengths the middle score belongs to the
// second half.
func CalculateProgress(scores []float64) Progress {
	if len(scores) == 0 {
		return Progress{Trend: TrendStable}
	}

	p := Progress{
		Average:     mean(scores),
		Trend:       TrendStable,
		Consistency: math.Max(0, 100-stdDev(scores)) / 100,
	}

	if len(scores) >= MinScoresForTrend {
		half := len(scores) / 2
		delta := mean(scores[half:]) - mean(scores[:half])
		switch {
		case delta > 10:
			p.Trend = TrendImproving
		case delta < -10:
			p.Trend = TrendDeclining
		}
	}
	return p
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)))
}
