package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

type stubLookup struct {
	users map[string]*domain.User
}

func (s *stubLookup) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string, users UserLookup, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth("secret", users)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotRun(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"sub":  "u-1",
		"role": "Desainer Grafis",
		"name": "Rina",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	called := false
	rec := runAuth(t, "Bearer "+token, nil, func(c echo.Context) error {
		called = true
		actor, ok := ActorFrom(c)
		if !ok {
			t.Fatalf("actor not set")
		}
		if actor.ID != "u-1" || actor.Name != "Rina" || actor.Role != domain.RoleGraphicDesigner {
			t.Fatalf("unexpected actor: %+v", actor)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RoleIsRefreshedFromStorage(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "u-1", "role": "unassigned", "exp": time.Now().Add(time.Hour).Unix()})
	users := &stubLookup{users: map[string]*domain.User{
		"u-1": {ID: "u-1", Name: "Rina", Role: domain.RoleCopywriter},
	}}

	rec := runAuth(t, "Bearer "+token, users, func(c echo.Context) error {
		actor, _ := ActorFrom(c)
		if actor.Role != domain.RoleCopywriter {
			t.Fatalf("expected stored role, got %s", actor.Role)
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "gone", "role": "director", "exp": time.Now().Add(time.Hour).Unix()})
	rec := runAuth(t, "Bearer "+token, &stubLookup{}, mustNotRun(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := sign(t, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
	noSubject := sign(t, jwt.MapClaims{"role": "director", "exp": time.Now().Add(time.Hour).Unix()})

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"garbage token":   "Bearer not-a-token",
		"expired token":   "Bearer " + expired,
		"missing subject": "Bearer " + noSubject,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runAuth(t, header, nil, mustNotRun(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
