package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/api/middleware"
	"github.com/kreatask/kreatask-api/internal/core/domain"
)

var (
	director = &domain.Actor{ID: "dir-1", Name: "Dana", Role: domain.RoleDirector}
	designer = &domain.Actor{ID: "des-1", Name: "Ayu", Role: domain.RoleGraphicDesigner}
)

// newContext builds an Echo context for a JSON request. A non-nil actor is
// attached the way the Auth middleware does it.
func newContext(method, target, body string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if actor != nil {
		c.Set(middleware.KeyUserID, actor.ID)
		c.Set(middleware.KeyRole, actor.Role)
		c.Set(middleware.KeyName, actor.Name)
	}
	return c, rec
}

// assertHTTPError checks that err is an *echo.HTTPError with the given code.
func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected HTTP %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}

