// Package practice is the terminal interview screen. It drives the
// interview state machine and only accepts typing while the state
// allows it.
package practice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screen"
	"github.com/interviewace/interviewace/internal/screens/summary"
	"github.com/interviewace/interviewace/internal/store"
	"github.com/interviewace/interviewace/internal/ui/components"
	"github.com/interviewace/interviewace/internal/ui/layout"
)

// DefaultSpeakDelay is how long a question stays in the speaking state
// before the candidate may answer.
const DefaultSpeakDelay = 1200 * time.Millisecond

// Deps configures a practice interview.
type Deps struct {
	Orchestrator *interview.Orchestrator
	Completer    *interview.Completer
	Reporter     *interview.Reporter

	Config    interview.Config
	UserEmail string
	UserName  string

	// SpeakDelay replaces text-to-speech playback. Zero moves straight on.
	SpeakDelay time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Screen implements screen.Screen for a running interview.
type Screen struct {
	deps      Deps
	sessionID string
	startedAt time.Time

	state    interview.State
	total    int
	index    int // answered main questions
	greeting string
	question string
	// followingUp is set while the current question digs into the
	// previous answer. A main question gets at most one follow-up.
	followingUp bool
	turn        int // position of the current question, follow-ups included

	lastFeedback string
	lastScore    float64
	hasScore     bool

	history interview.History
	used    []string
	scores  []float64
	entries []interview.TranscriptEntry

	input       components.AnswerInput
	quitConfirm bool
	errMsg      string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
	_ screen.EscapeHandler   = (*Screen)(nil)
)

// New creates a practice screen.
func New(deps Deps) *Screen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Orchestrator == nil {
		deps.Orchestrator = interview.NewOrchestrator(nil, interview.Options{Logger: deps.Logger})
	}
	s := &Screen{
		deps:      deps,
		sessionID: uuid.NewString(),
		startedAt: deps.Now(),
		state:     interview.StateIdle,
		total:     deps.Config.TotalQuestions(),
		input:     components.NewAnswerInput("Type your answer...", 70),
	}
	s.syncInput()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.input.Init())
}

func (s *Screen) Title() string {
	return "Mock Interview"
}

// Status shows question progress.
func (s *Screen) Status() string {
	if s.question == "" {
		return ""
	}
	n := s.index + 1
	if n > s.total {
		n = s.total
	}
	if s.followingUp {
		return fmt.Sprintf("Question %d/%d · follow-up", n, s.total)
	}
	return fmt.Sprintf("Question %d/%d", n, s.total)
}

func (s *Screen) HandlesEscape() bool {
	return s.errMsg == ""
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End interview"},
			{Key: "N", Description: "Keep going"},
		}
	case s.state == interview.StateListening:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit answer"},
			{Key: "Esc", Description: "End"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "End"}}
}

// State is the current interview state.
func (s *Screen) State() interview.State {
	return s.state
}

// InputLocked reports whether typing is currently ignored.
func (s *Screen) InputLocked() bool {
	return s.input.Locked()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case spokenMsg:
		return s.handleSpoken(msg)

	case respondedMsg:
		return s.handleResponded(msg)

	case tea.WindowSizeMsg:
		s.input.SetWidth(layout.TextWidth(msg.Width))
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// apply fires ev on the state machine and re-gates the input.
func (s *Screen) apply(ev interview.Event) {
	s.state, _ = interview.Step(context.Background(), s.deps.Logger, s.state, ev, interview.TransitionContext{
		QuestionIndex:  s.index,
		TotalQuestions: s.total,
	})
	s.syncInput()
}

func (s *Screen) syncInput() {
	locked := interview.IsInputDisabled(s.state) || s.question == "" || s.quitConfirm || s.errMsg != ""
	s.input.SetLocked(locked)
}

func (s *Screen) start() tea.Cmd {
	in := interview.StartInput{
		Config:    s.deps.Config,
		UserName:  s.deps.UserName,
		SessionID: s.sessionID,
	}
	orch := s.deps.Orchestrator
	return func() tea.Msg {
		res, err := orch.Start(context.Background(), in)
		return startedMsg{Result: res, Err: err}
	}
}

func (s *Screen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		s.syncInput()
		return s, nil
	}
	res := msg.Result
	s.total = res.TotalQuestions
	s.greeting = res.Greeting
	s.ask(res.Question, true)
	s.history = append(s.history, interview.Turn{
		Role:    interview.SpeakerAssistant,
		Content: strings.TrimSpace(res.Greeting + " " + res.Question),
	})
	s.apply(interview.EventSessionStarted)
	return s, s.speak()
}

// ask makes q the current question. Follow-ups are left out of the used
// list so the bank can still draw around them.
func (s *Screen) ask(q string, main bool) {
	if s.question != "" {
		s.turn++
	}
	s.question = q
	if main {
		s.used = append(s.used, q)
	}
}

// speak schedules the end of the current question's playback.
func (s *Screen) speak() tea.Cmd {
	idx := s.turn
	if s.deps.SpeakDelay <= 0 {
		return func() tea.Msg { return spokenMsg{Index: idx} }
	}
	return tea.Tick(s.deps.SpeakDelay, func(time.Time) tea.Msg {
		return spokenMsg{Index: idx}
	})
}

func (s *Screen) handleSpoken(msg spokenMsg) (screen.Screen, tea.Cmd) {
	if msg.Index != s.turn || s.state != interview.StateSpeaking {
		return s, nil
	}
	s.apply(interview.EventTTSFinished)
	return s, s.input.Init()
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			s.apply(interview.EventInterviewEnded)
			return s, s.finish()
		case "n", "N", "esc":
			s.quitConfirm = false
			s.syncInput()
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		s.syncInput()
		return s, nil
	case "enter":
		if s.state == interview.StateListening {
			return s.submit()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	answer := strings.TrimSpace(s.input.Value())
	if answer == "" {
		return s, nil
	}

	in := interview.RespondInput{
		Question:      s.question,
		Answer:        answer,
		History:       append(interview.History(nil), s.history...),
		Config:        s.deps.Config,
		QuestionIndex: s.index,
		UsedQuestions: append([]string(nil), s.used...),
		SessionScores: append([]float64(nil), s.scores...),
		SessionID:     s.sessionID,
	}
	s.history = append(s.history, interview.Turn{Role: interview.SpeakerUser, Content: answer})
	s.input.Reset()
	s.apply(interview.EventAnswerSubmitted)

	orch := s.deps.Orchestrator
	return s, func() tea.Msg {
		res, err := orch.Respond(context.Background(), in)
		return respondedMsg{Question: in.Question, Answer: answer, Result: res, Err: err}
	}
}

func (s *Screen) handleResponded(msg respondedMsg) (screen.Screen, tea.Cmd) {
	if s.state != interview.StateEvaluating {
		return s, nil
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		s.syncInput()
		return s, nil
	}

	res := msg.Result
	kind := store.KindMain
	if s.followingUp {
		kind = store.KindFollowUp
	}
	s.entries = append(s.entries, interview.TranscriptEntry{
		Kind:         kind,
		Question:     msg.Question,
		Answer:       msg.Answer,
		Score:        res.Evaluation.OverallScore,
		Feedback:     res.Feedback,
		Strengths:    res.Evaluation.Strengths,
		Improvements: res.Evaluation.Improvements,
	})
	if !s.followingUp {
		s.scores = append(s.scores, res.Evaluation.OverallScore)
	}
	s.lastFeedback = res.Feedback
	s.lastScore = res.Evaluation.OverallScore
	s.hasScore = true

	if !s.followingUp && !res.Done && res.Decision.NextAction == interview.ActionFollowUp {
		// The main question stays current; the index moves once the
		// follow-up is answered.
		s.followingUp = true
		s.apply(interview.EventEvaluationComplete)
		s.ask(interview.FollowUpQuestion(res.Evaluation), false)
		s.history = append(s.history, interview.Turn{
			Role:    interview.SpeakerAssistant,
			Content: strings.TrimSpace(res.Feedback + " " + s.question),
		})
		s.syncInput()
		return s, s.speak()
	}
	s.followingUp = false
	s.index++

	if res.Done || res.Decision.ShouldEnd || res.NextQuestion == nil {
		s.apply(interview.EventInterviewEnded)
	} else {
		s.apply(interview.EventEvaluationComplete)
	}
	if s.state == interview.StateFinished {
		return s, s.finish()
	}

	s.ask(*res.NextQuestion, true)
	s.history = append(s.history, interview.Turn{
		Role:    interview.SpeakerAssistant,
		Content: strings.TrimSpace(res.Feedback + " " + s.question),
	})
	s.syncInput()
	return s, s.speak()
}

// finish hands the transcript to the summary screen, or leaves when
// nothing was answered.
func (s *Screen) finish() tea.Cmd {
	if len(s.entries) == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	in := interview.CompleteInput{
		UserEmail: s.deps.UserEmail,
		Config:    s.deps.Config,
		Entries:   append([]interview.TranscriptEntry(nil), s.entries...),
		StartedAt: s.startedAt,
		EndedAt:   s.deps.Now(),
	}
	next := summary.NewForInterview(s.deps.Completer, s.deps.Reporter, in)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
