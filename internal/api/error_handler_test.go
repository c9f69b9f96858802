package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		"echo error":          {echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		"wrapped not found":   {fmt.Errorf("get task: %w", domain.ErrTaskNotFound), http.StatusNotFound, "get task: task not found"},
		"permission denied":   {domain.ErrPermissionDenied, http.StatusForbidden, domain.ErrPermissionDenied.Error()},
		"role conflict":       {domain.ErrConflict, http.StatusConflict, domain.ErrConflict.Error()},
		"invalid transition":  {domain.ErrInvalidTransition, http.StatusUnprocessableEntity, domain.ErrInvalidTransition.Error()},
		"unknown mode":        {domain.ErrInvalidLeaderboardMode, http.StatusBadRequest, domain.ErrInvalidLeaderboardMode.Error()},
		"language model down": {fmt.Errorf("%w: status 503", domain.ErrLanguageModel), http.StatusBadGateway, "assistant is unavailable, try again later"},
		"unexpected":          {errors.New("mongo: socket closed"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tc.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrTaskNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Errorf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}
