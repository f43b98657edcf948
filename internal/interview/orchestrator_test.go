package interview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/llm"
)

var testCfg = Config{
	Role:       "Backend Engineer",
	Type:       "technical",
	Difficulty: DifficultyMedium,
}

const goodAnswer = "In my last project I designed a cache layer for our API. First, we measured " +
	"latency with a profiler. Then I added Redis with a TTL and invalidation on writes, " +
	"because consistency mattered. As a result p99 latency dropped by 40 percent."

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(p llm.Provider, aiEnabled bool) *Orchestrator {
	opts := DefaultOptions()
	opts.AIEnabled = aiEnabled
	opts.Logger = quietLogger()
	return NewOrchestrator(p, opts)
}

func TestAIEnabled(t *testing.T) {
	assert.False(t, newTestOrchestrator(nil, true).AIEnabled())
	assert.False(t, newTestOrchestrator(llm.NewMockProvider(), false).AIEnabled())
	assert.True(t, newTestOrchestrator(llm.NewMockProvider(), true).AIEnabled())
}

func TestStart_AI(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("```json\n{\"greeting\": \"Welcome!\", \"question\": \"Tell me about a system you built.\"}\n```"))
	o := newTestOrchestrator(mock, true)

	res, err := o.Start(context.Background(), StartInput{Config: testCfg, UserName: "Sam", SessionID: "s-1"})
	require.NoError(t, err)

	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, "Welcome!", res.Greeting)
	assert.Equal(t, "Tell me about a system you built.", res.Question)
	assert.Equal(t, StateSpeaking, res.State)
	assert.Equal(t, DefaultTotalQuestions, res.TotalQuestions)
	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Candidate name: Sam")
}

func TestStart_ConfiguredQuestionWins(t *testing.T) {
	cfg := testCfg
	cfg.Questions = []string{"  Why this company?  ", "What is your biggest win?"}

	mock := llm.NewMockProvider(llm.MockText(`{"greeting": "Hello", "question": "Something else"}`))
	res, err := newTestOrchestrator(mock, true).Start(context.Background(), StartInput{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "Why this company?", res.Question)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "The first question must be exactly: Why this company?")

	res, err = newTestOrchestrator(nil, false).Start(context.Background(), StartInput{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "Why this company?", res.Question)
}

func TestStart_Fallback(t *testing.T) {
	for name, mock := range map[string]*llm.MockProvider{
		"provider error": llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}}),
		"invalid json":   llm.NewMockProvider(llm.MockText("Sure! Here is a question for you.")),
		"missing field":  llm.NewMockProvider(llm.MockText(`{"greeting": "Hi"}`)),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := newTestOrchestrator(mock, true).Start(context.Background(), StartInput{Config: testCfg, UserName: "Sam"})
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, res.Source)
			assert.Contains(t, res.Greeting, "Hi Sam")
			assert.NotEmpty(t, res.Question)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestStart_InvalidConfigSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"greeting": "Hi", "question": "Q"}`))
	_, err := newTestOrchestrator(mock, true).Start(context.Background(), StartInput{Config: Config{Type: "technical", Difficulty: "easy"}})

	var inErr *InputError
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, "config.role", inErr.Field)
	assert.Equal(t, 0, mock.CallCount())
}

func TestRespond_AI(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Solid answer.", "nextQuestion": "How would you shard it?", "endInterview": false}`))
	o := newTestOrchestrator(mock, true)

	res, err := o.Respond(context.Background(), RespondInput{
		Question:      "How would you cache a read-heavy API?",
		Answer:        goodAnswer,
		Config:        testCfg,
		QuestionIndex: 1,
		UsedQuestions: []string{"Tell me about yourself."},
		SessionScores: []float64{70},
	})
	require.NoError(t, err)

	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, "Solid answer.", res.Feedback)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, "How would you shard it?", *res.NextQuestion)
	assert.False(t, res.Done)
	assert.Greater(t, res.Evaluation.OverallScore, 0.0)
	assert.Equal(t, 1, mock.CallCount())

	prompt := mock.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Question 2 of 5.")
	assert.Contains(t, prompt, "- Tell me about yourself.")
}

func TestRespond_AIEndsInterview(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Thanks, that's all.", "nextQuestion": null, "endInterview": true}`))
	res, err := newTestOrchestrator(mock, true).Respond(context.Background(), RespondInput{
		Question: "Q", Answer: goodAnswer, Config: testCfg, QuestionIndex: 2,
	})
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Nil(t, res.NextQuestion)
	assert.Equal(t, SourceAI, res.Source)
}

func TestRespond_ContinueWithoutQuestionFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Good.", "nextQuestion": null, "endInterview": false}`))
	res, err := newTestOrchestrator(mock, true).Respond(context.Background(), RespondInput{
		Question: "Q", Answer: goodAnswer, Config: testCfg, QuestionIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	require.NotNil(t, res.NextQuestion)
	assert.NotEmpty(t, *res.NextQuestion)
}

func TestRespond_FallbackShapeMatchesDisabledAI(t *testing.T) {
	in := RespondInput{
		Question:      "Explain how a database index works and when adding one can hurt performance.",
		Answer:        goodAnswer,
		Config:        testCfg,
		QuestionIndex: 1,
	}

	disabled, err := newTestOrchestrator(nil, false).Respond(context.Background(), in)
	require.NoError(t, err)

	broken := llm.NewMockProvider(llm.MockText("not json at all"))
	invalid, err := newTestOrchestrator(broken, true).Respond(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, disabled, invalid)
	assert.Equal(t, SourceFallback, invalid.Source)
	assert.Equal(t, invalid.Evaluation.Feedback, invalid.Feedback)
}

func TestRespond_FallbackIsDeterministic(t *testing.T) {
	in := RespondInput{Question: "What is a deadlock?", Answer: goodAnswer, Config: testCfg, QuestionIndex: 3}
	o := newTestOrchestrator(nil, false)

	a, err := o.Respond(context.Background(), in)
	require.NoError(t, err)
	b, err := o.Respond(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRespond_FallbackDoneAtLimit(t *testing.T) {
	o := newTestOrchestrator(nil, false)

	res, err := o.Respond(context.Background(), RespondInput{Question: "Q", Answer: goodAnswer, Config: testCfg, QuestionIndex: FallbackQuestionLimit})
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Nil(t, res.NextQuestion)

	res, err = o.Respond(context.Background(), RespondInput{Question: "Q", Answer: goodAnswer, Config: testCfg, QuestionIndex: FallbackQuestionLimit - 1})
	require.NoError(t, err)
	assert.False(t, res.Done)
	require.NotNil(t, res.NextQuestion)
}

func TestRespond_FallbackSkipsAskedQuestions(t *testing.T) {
	cfg := testCfg
	cfg.Questions = []string{"First?", "Second?", "Third?"}

	res, err := newTestOrchestrator(nil, false).Respond(context.Background(), RespondInput{
		Question: "second?", Answer: goodAnswer, Config: cfg, QuestionIndex: 1,
		UsedQuestions: []string{"First?"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.NextQuestion)
	assert.Equal(t, "Third?", *res.NextQuestion)
}

func TestRespond_FallbackNeverRepeatsBankQuestion(t *testing.T) {
	o := newTestOrchestrator(nil, false)
	current := o.bank.FirstQuestion(testCfg.bankCriteria()).Text

	res, err := o.Respond(context.Background(), RespondInput{Question: current, Answer: goodAnswer, Config: testCfg, QuestionIndex: 0})
	require.NoError(t, err)
	require.NotNil(t, res.NextQuestion)
	assert.NotEqual(t, strings.ToLower(current), strings.ToLower(*res.NextQuestion))
}

func TestRespond_InvalidInputSkipsProvider(t *testing.T) {
	tests := []struct {
		name  string
		in    RespondInput
		field string
	}{
		{"empty answer", RespondInput{Question: "Q", Answer: "   ", Config: testCfg}, "answer"},
		{"empty question", RespondInput{Answer: "A", Config: testCfg}, "question"},
		{"negative index", RespondInput{Question: "Q", Answer: "A", Config: testCfg, QuestionIndex: -1}, "questionIndex"},
		{"bad difficulty", RespondInput{Question: "Q", Answer: "A", Config: Config{Role: "r", Type: "t", Difficulty: "extreme"}}, "config.difficulty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			_, err := newTestOrchestrator(mock, true).Respond(context.Background(), tt.in)

			var inErr *InputError
			require.True(t, errors.As(err, &inErr), "got %v", err)
			assert.Equal(t, tt.field, inErr.Field)
			assert.Equal(t, 0, mock.CallCount())
		})
	}
}

func TestRespond_DecisionIsAdvisory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Ok.", "nextQuestion": "Next?", "endInterview": false}`))
	res, err := newTestOrchestrator(mock, true).Respond(context.Background(), RespondInput{
		Question: "Q", Answer: goodAnswer, Config: testCfg, QuestionIndex: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionEndInterview, res.Decision.NextAction)
	assert.False(t, res.Done)
}

func TestEnhance_AI(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Nice use of metrics.", "followUp": "How did you pick the TTL?"}`))
	res, err := newTestOrchestrator(mock, true).Enhance(context.Background(), EnhanceInput{
		Question: "How would you cache a read-heavy API?",
		Answer:   goodAnswer,
		Config:   testCfg,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, "Nice use of metrics.", res.Feedback)
	require.NotNil(t, res.FollowUp)
	assert.Equal(t, "How did you pick the TTL?", *res.FollowUp)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `{"feedback": "string", "followUp": "string or null"}`)
}

func TestEnhance_AINullFollowUp(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"feedback": "Great.", "followUp": null}`))
	res, err := newTestOrchestrator(mock, true).Enhance(context.Background(), EnhanceInput{Question: "Q", Answer: goodAnswer, Config: testCfg})
	require.NoError(t, err)
	assert.Nil(t, res.FollowUp)
}

func TestEnhance_FallbackFollowUpTargetsWeakestDimension(t *testing.T) {
	res, err := newTestOrchestrator(nil, false).Enhance(context.Background(), EnhanceInput{
		Question: "Describe how you would design a distributed rate limiter.",
		Answer:   "um maybe i guess",
		Config:   testCfg,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, res.Evaluation.Feedback, res.Feedback)
	require.True(t, res.Evaluation.ShouldFollowUp)
	require.NotNil(t, res.FollowUp)
	assert.Equal(t, followUpFor(evaluator.Dimension(*res.Evaluation.FollowUpFocus)), *res.FollowUp)
}
