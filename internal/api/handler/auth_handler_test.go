package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if name != "Ayu" || email != "ayu@krea.id" || password != "rahasia123" {
				t.Errorf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, Role: domain.RoleUnassigned}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/register",
		`{"name":"Ayu","email":"ayu@krea.id","password":"rahasia123"}`, nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)

	var resp struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "" {
		t.Error("register must not issue a token")
	}
	var user map[string]any
	_ = json.Unmarshal(resp.User, &user)
	if user["role"] != "unassigned" {
		t.Errorf("role = %v, want unassigned", user["role"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	cases := map[string]string{
		"short password": `{"name":"Ayu","email":"ayu@krea.id","password":"short"}`,
		"bad email":      `{"name":"Ayu","email":"not-an-email","password":"rahasia123"}`,
		"missing name":   `{"email":"ayu@krea.id","password":"rahasia123"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				registerFn: func(context.Context, string, string, string) (*domain.User, error) {
					t.Error("service must not be called")
					return nil, nil
				},
			}
			c, _ := newContext(http.MethodPost, "/auth/register", body, nil)
			assertHTTPError(t, NewAuthHandler(stub).Register(c), http.StatusUnprocessableEntity)
		})
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/register",
		`{"name":"Ayu","email":"ayu@krea.id","password":"rahasia123"}`, nil)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "signed.jwt.token", &domain.User{ID: "u1", Email: email, Role: domain.RoleCopywriter}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"ayu@krea.id","password":"rahasia123"}`, nil)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Errorf("token = %q", resp.Token)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"email":"ayu@krea.id","password":"wrong"}`, nil)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedJSON(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/auth/login", `{"email":`, nil)
	assertHTTPError(t, NewAuthHandler(&stubAuthService{}).Login(c), http.StatusBadRequest)
}
