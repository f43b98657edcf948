package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/store"
)

var errRateLimited = errors.New("rate limit exceeded")

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// mapError converts a handler error into a status and body.
func mapError(err error) (int, errorResponse) {
	var inErr *interview.InputError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &inErr):
		return http.StatusBadRequest, errorResponse{Error: inErr.Error(), Field: inErr.Field}
	case store.IsNotFound(err):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, errorResponse{Error: err.Error()}
	case errors.As(err, &httpErr):
		return httpErr.Code, errorResponse{Error: fmt.Sprint(httpErr.Message)}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"path", c.Path(), "request_id", body.RequestID, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}
