// Package server exposes the interview flow over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/store"
)

// Deps are the collaborators the handlers call.
type Deps struct {
	Orchestrator *interview.Orchestrator
	Completer    *interview.Completer
	Reporter     *interview.Reporter
	Sessions     store.SessionRepo

	// Chat backs the streaming chat endpoint. Nil disables it.
	Chat llm.Provider

	Limiter *RateLimiter
	Logger  *slog.Logger
	Now     func() time.Time
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	echo   *echo.Echo
	logger *slog.Logger
	now    func() time.Time
}

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// New builds the server and registers its routes.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Limiter == nil {
		d.Limiter = NewRateLimiter(1, 5)
	}
	if d.Orchestrator == nil {
		d.Orchestrator = interview.NewOrchestrator(nil, interview.Options{Logger: d.Logger})
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{deps: d, echo: e, logger: d.Logger, now: d.Now}
	e.HTTPErrorHandler = s.handleError
	e.Use(requestID(), requestLogger(d.Logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api", requireUser())
	ai := limitAI(s.deps.Limiter)

	api.POST("/interview/start", s.handleStart, ai)
	api.POST("/interview/respond", s.handleRespond, ai)
	api.POST("/interview/evaluate", s.handleEvaluate, ai)
	api.POST("/interview/decide", s.handleDecide)
	api.POST("/interview/transition", s.handleTransition)
	api.POST("/interview/complete", s.handleComplete)

	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.GET("/sessions/:id/report", s.handleReport, ai)
	api.GET("/analytics", s.handleAnalytics)

	api.GET("/chat/stream", s.handleChatStream)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"aiEnabled": s.deps.Orchestrator.AIEnabled(),
	})
}
