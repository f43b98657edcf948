package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/llm"
)

// Chat frame types.
const (
	frameChat    = "chat"
	frameAbort   = "abort"
	frameDelta   = "delta"
	frameDone    = "done"
	frameAborted = "aborted"
	frameError   = "error"
)

const (
	chatMaxMessageBytes = 64 << 10
	chatMaxTokens       = 512
	chatWriteTimeout    = 10 * time.Second
)

// chatFrame is every message on the chat socket in either direction.
type chatFrame struct {
	Type     string            `json:"type"`
	Messages interview.History `json:"messages,omitempty"`
	Config   *interview.Config `json:"config,omitempty"`
	Content  string            `json:"content,omitempty"`
	Error    string            `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsWriter serializes writes; gorilla connections allow one writer.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) send(f chatFrame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
	return w.conn.WriteJSON(f)
}

// handleChatStream runs a streaming chat over a websocket. Each "chat"
// frame starts one generation whose deltas are pushed as "delta" frames,
// ending with "done", "aborted" or "error". An "abort" frame or a client
// disconnect cancels the generation in flight.
func (s *Server) handleChatStream(c echo.Context) error {
	streamer, ok := llm.AsStreamer(s.deps.Chat)
	if !ok || !s.deps.Orchestrator.AIEnabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "streaming chat is not available")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied.
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(chatMaxMessageBytes)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	w := &wsWriter{conn: conn}
	user := userEmail(c)

	frames := make(chan chatFrame)
	go func() {
		defer close(frames)
		for {
			var f chatFrame
			if err := conn.ReadJSON(&f); err != nil {
				cancel()
				return
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		genCancel  context.CancelFunc = func() {}
		generating bool
		finished   = make(chan struct{}, 1)
	)
	defer func() { genCancel() }()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-finished:
			generating = false
			genCancel()

		case f, ok := <-frames:
			if !ok {
				return nil
			}
			switch f.Type {
			case frameAbort:
				genCancel()
			case frameChat:
				if generating {
					_ = w.send(chatFrame{Type: frameError, Error: "a reply is already streaming"})
					continue
				}
				if !s.deps.Limiter.Allow(user) {
					_ = w.send(chatFrame{Type: frameError, Error: errRateLimited.Error()})
					continue
				}
				var gctx context.Context
				gctx, genCancel = context.WithCancel(ctx)
				generating = true
				go func() {
					s.streamChat(gctx, streamer, w, f)
					finished <- struct{}{}
				}()
			default:
				_ = w.send(chatFrame{Type: frameError, Error: "unknown frame type " + f.Type})
			}
		}
	}
}

func (s *Server) streamChat(ctx context.Context, streamer llm.Streamer, w *wsWriter, f chatFrame) {
	var cfg interview.Config
	if f.Config != nil {
		cfg = *f.Config
	}

	req := llm.Request{
		System:      interview.ChatSystemPrompt(cfg),
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	}
	for _, t := range f.Messages.Recent(interview.MaxHistoryTurns) {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := llm.RoleUser
		if t.Role == interview.SpeakerAssistant {
			role = llm.RoleAssistant
		}
		req.Messages = append(req.Messages, llm.Message{Role: role, Content: t.Content})
	}
	if len(req.Messages) == 0 {
		_ = w.send(chatFrame{Type: frameError, Error: "messages must not be empty"})
		return
	}

	ctx = llm.WithPurpose(ctx, "chat-stream")
	err := streamer.Stream(ctx, req, func(delta string) error {
		return w.send(chatFrame{Type: frameDelta, Content: delta})
	})
	switch {
	case err == nil:
		_ = w.send(chatFrame{Type: frameDone})
	case errors.Is(err, context.Canceled):
		_ = w.send(chatFrame{Type: frameAborted})
	default:
		s.logger.WarnContext(ctx, "chat stream failed", "error", err)
		_ = w.send(chatFrame{Type: frameError, Error: "the interviewer is unavailable"})
	}
}
