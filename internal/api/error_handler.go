package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// domainStatus lists the domain errors whose message is safe to return.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrTaskNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrPermissionDenied, http.StatusForbidden},
	{domain.ErrSelfTarget, http.StatusForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{domain.ErrNotCompleted, http.StatusUnprocessableEntity},
	{domain.ErrMissingCompletionDate, http.StatusUnprocessableEntity},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrInvalidCategory, http.StatusBadRequest},
	{domain.ErrInvalidStatus, http.StatusBadRequest},
	{domain.ErrMissingDueDate, http.StatusBadRequest},
	{domain.ErrUnknownRole, http.StatusBadRequest},
	{domain.ErrInvalidAction, http.StatusBadRequest},
	{domain.ErrInvalidLeaderboardMode, http.StatusBadRequest},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, err.Error()
		}
	}

	if errors.Is(err, domain.ErrLanguageModel) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("language model failure")
		return http.StatusBadGateway, "assistant is unavailable, try again later"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
