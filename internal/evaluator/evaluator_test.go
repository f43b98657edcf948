package evaluator

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

var technicalMedium = Criteria{Role: "backend engineer", Type: "technical", Difficulty: "medium"}

const cacheQuestion = "How would you design a cache for a high-traffic API?"

const strongCacheAnswer = `First, I would put a read-through cache in front of the database to cut latency.
I designed a similar system where we used Redis with a TTL and an LRU eviction policy.
Because the API is read heavy, caching the hot keys gives the most throughput.
Then I would handle consistency by invalidating entries on write events, and add monitoring and metrics for the hit rate.
Finally, I would load test the design and benchmark the p99 latency before rollout.`

func TestEvaluate_EmptyAnswer(t *testing.T) {
	r := Evaluate(cacheQuestion, "   ", technicalMedium)
	if r.OverallScore != 0 {
		t.Errorf("got score %v, want 0", r.OverallScore)
	}
	if !r.ShouldFollowUp || r.FollowUpFocus == nil {
		t.Fatal("expected a follow-up for an empty answer")
	}
	if len(r.Improvements) == 0 {
		t.Error("expected an improvement for an empty answer")
	}
}

func TestEvaluate_StrongAnswer(t *testing.T) {
	r := Evaluate(cacheQuestion, strongCacheAnswer, technicalMedium)
	if r.OverallScore < 80 {
		t.Fatalf("got score %v, want >= 80 (breakdown %+v)", r.OverallScore, r.Breakdown)
	}
	if !strings.HasPrefix(r.Feedback, "Strong answer.") {
		t.Errorf("unexpected feedback %q", r.Feedback)
	}
	if r.ShouldFollowUp {
		t.Errorf("did not expect a follow-up, focus %v", *r.FollowUpFocus)
	}
	if len(r.Strengths) == 0 {
		t.Error("expected strengths for a strong answer")
	}
}

func TestEvaluate_WeakAnswer(t *testing.T) {
	weak := Evaluate(cacheQuestion, "I don't know, maybe.", technicalMedium)
	strong := Evaluate(cacheQuestion, strongCacheAnswer, technicalMedium)

	if weak.OverallScore >= strong.OverallScore {
		t.Fatalf("weak %v should score below strong %v", weak.OverallScore, strong.OverallScore)
	}
	if weak.OverallScore >= 40 {
		t.Errorf("got score %v, want < 40", weak.OverallScore)
	}
	if !weak.ShouldFollowUp {
		t.Error("expected a follow-up for a weak answer")
	}
	if len(weak.Improvements) == 0 {
		t.Error("expected improvements for a weak answer")
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	a := Evaluate(cacheQuestion, strongCacheAnswer, technicalMedium)
	b := Evaluate(cacheQuestion, strongCacheAnswer, technicalMedium)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestEvaluate_Bounds(t *testing.T) {
	answers := []string{
		"yes",
		"Um, like, basically you know it's kind of stuff and things, sort of.",
		strongCacheAnswer,
		strings.Repeat("This is a very long sentence without any punctuation that keeps going ", 20),
	}
	for _, diff := range []string{"easy", "medium", "hard", "unknown"} {
		for _, ans := range answers {
			r := Evaluate(cacheQuestion, ans, Criteria{Type: "technical", Difficulty: diff})
			if r.OverallScore < 0 || r.OverallScore > 100 {
				t.Errorf("overall %v out of range", r.OverallScore)
			}
			for _, d := range dimensionOrder {
				if v := r.Breakdown.Get(d); v < 0 || v > 10 {
					t.Errorf("%s = %v out of range", d, v)
				}
			}
		}
	}
}

func TestStructureScorer_BehavioralSTAR(t *testing.T) {
	c := Criteria{Type: "behavioral", Difficulty: "medium"}
	s := &StructureScorer{}

	star := "The situation was a failing release. My task was to fix it. The action I took was to roll back. The result was zero downtime and I learned a lot."
	plain := "We fixed it quickly."

	starScore, strength, _ := s.Score(newInput("Tell me about a failure.", star, c))
	plainScore, _, improvement := s.Score(newInput("Tell me about a failure.", plain, c))

	if starScore != 10 {
		t.Errorf("got STAR score %v, want 10", starScore)
	}
	if strength == "" {
		t.Error("expected a strength for a STAR answer")
	}
	if plainScore >= starScore {
		t.Errorf("plain %v should score below STAR %v", plainScore, starScore)
	}
	if !strings.Contains(improvement, "STAR") {
		t.Errorf("expected STAR advice, got %q", improvement)
	}
}

func TestConfidenceScorer_Hedging(t *testing.T) {
	s := &ConfidenceScorer{}
	score, _, improvement := s.Score(newInput("q", "maybe i think probably it works, not sure", technicalMedium))
	// Four hedges: 6 - 4*1.2.
	if math.Abs(score-1.2) > 1e-9 {
		t.Errorf("got %v, want 1.2", score)
	}
	if improvement == "" {
		t.Error("expected an improvement for a hedging answer")
	}
}

func TestClarityScorer_NoSentences(t *testing.T) {
	s := &ClarityScorer{}
	score, _, _ := s.Score(newInput("q", "...", technicalMedium))
	if score != 0 {
		t.Errorf("got %v, want 0", score)
	}
}

func TestWeakestDimension_TiesUseOrder(t *testing.T) {
	b := Breakdown{Technical: 5, Clarity: 3, Confidence: 3, Relevance: 8, Structure: 9}
	if got := weakestDimension(b); got != DimClarity {
		t.Errorf("got %s, want %s", got, DimClarity)
	}
}

func newInput(question, answer string, c Criteria) *Input {
	return &Input{
		Question:  question,
		Answer:    answer,
		Criteria:  c,
		Words:     tokenize(answer),
		Sentences: sentences(answer),
		QWords:    contentWords(tokenize(question)),
	}
}
