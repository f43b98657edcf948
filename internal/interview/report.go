package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/store"
)

// Report is the end-of-interview summary.
type Report struct {
	SessionID    string   `json:"sessionId"`
	OverallScore float64  `json:"overallScore"`
	Progress     Progress `json:"progress"`
	// Summary is markdown.
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Source       Source   `json:"source"`
}

// ReportSchema is the structured output requested for reports.
var ReportSchema = &llm.Schema{
	Name:        "interview-report",
	Description: "Summary of a completed mock interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "A short markdown summary of the candidate's performance",
			},
			"strengths": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 5,
			},
			"improvements": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 5,
			},
		},
		"required":             []any{"summary", "strengths", "improvements"},
		"additionalProperties": false,
	},
}

type reportOutput struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// maxReportItems caps strengths and improvements in fallback reports.
const maxReportItems = 3

// Reporter writes reports for persisted sessions. Unlike interview turns
// it may use a retrying provider: nobody is waiting mid-conversation.
type Reporter struct {
	provider  llm.Provider
	aiEnabled bool
	logger    *slog.Logger
}

// NewReporter creates a Reporter. A nil provider or aiEnabled=false
// produces deterministic reports only.
func NewReporter(provider llm.Provider, aiEnabled bool, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{provider: provider, aiEnabled: aiEnabled, logger: logger}
}

// Generate builds the report for rec. Scores are normalized from the
// record's scale before use.
func (r *Reporter) Generate(ctx context.Context, rec *store.SessionRecord) (*Report, error) {
	scores := make([]float64, len(rec.Questions))
	for i, q := range rec.Questions {
		scores[i] = evaluator.NormalizeStored(q.Score, rec.ScoreScale)
	}

	rep := &Report{
		SessionID:    rec.ID,
		OverallScore: evaluator.NormalizeStored(rec.OverallScore, rec.ScoreScale),
		Progress:     CalculateProgress(scores),
	}

	if r.aiEnabled && r.provider != nil {
		out, err := r.generateAI(ctx, rec, scores)
		if err == nil {
			rep.Summary = out.Summary
			rep.Strengths = out.Strengths
			rep.Improvements = out.Improvements
			rep.Source = SourceAI
			return rep, nil
		}
		r.logger.WarnContext(ctx, "ai report failed, using fallback", "session_id", rec.ID, "error", err)
	}

	rep.Strengths = topPhrases(rec.Questions, func(q store.QuestionRecord) []string { return q.Strengths })
	rep.Improvements = topPhrases(rec.Questions, func(q store.QuestionRecord) []string { return q.Improvements })
	rep.Summary = fallbackSummary(rec, rep, scores)
	rep.Source = SourceFallback
	return rep, nil
}

func (r *Reporter) generateAI(ctx context.Context, rec *store.SessionRecord, scores []float64) (*reportOutput, error) {
	ctx = llm.WithSessionID(llm.WithPurpose(ctx, PurposeReport), rec.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\nType: %s\nDifficulty: %s\n", rec.Role, rec.Type, rec.Difficulty)
	fmt.Fprintf(&b, "Overall score: %.0f/100\n\n", evaluator.NormalizeStored(rec.OverallScore, rec.ScoreScale))
	for i, q := range rec.Questions {
		fmt.Fprintf(&b, "Q%d (%.0f/100): %s\nAnswer: %s\n", i+1, scores[i], q.Question, q.Answer)
		if q.Feedback != "" {
			fmt.Fprintf(&b, "Feedback: %s\n", q.Feedback)
		}
		b.WriteString("\n")
	}
	b.WriteString("Summarize how the candidate did, then list their main strengths and the improvements that would help most.")

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      "You are an interview coach writing a concise, encouraging post-interview report.",
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: b.String()}},
		Schema:      ReportSchema,
		MaxTokens:   1024,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateJSON(ReportSchema, []byte(llm.ExtractJSON(string(resp.Content)))); err != nil {
		return nil, err
	}

	var out reportOutput
	if err := json.Unmarshal([]byte(llm.ExtractJSON(string(resp.Content))), &out); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &out, nil
}

// topPhrases returns the most frequent phrases across questions, ties
// broken by first appearance.
func topPhrases(qs []store.QuestionRecord, pick func(store.QuestionRecord) []string) []string {
	counts := map[string]int{}
	var order []string
	for _, q := range qs {
		for _, p := range pick(q) {
			if counts[p] == 0 {
				order = append(order, p)
			}
			counts[p]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxReportItems {
		order = order[:maxReportItems]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

func fallbackSummary(rec *store.SessionRecord, rep *Report, scores []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s interview: %s\n\n", titleCase(rec.Type), rec.Role)
	fmt.Fprintf(&b, "**Overall score:** %.0f/100 (%s)\n\n", rep.OverallScore, rec.Difficulty)

	if len(scores) > 0 {
		fmt.Fprintf(&b, "Scores were **%s** across the session", rep.Progress.Trend)
		fmt.Fprintf(&b, " with %.0f%% consistency.\n\n", rep.Progress.Consistency*100)
	}

	for i, q := range rec.Questions {
		fmt.Fprintf(&b, "%d. %s (%.0f/100)", i+1, q.Question, scores[i])
		if q.Feedback != "" {
			fmt.Fprintf(&b, "\n   %s", q.Feedback)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
