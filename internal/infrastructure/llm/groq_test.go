package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

func TestGroqClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
			return
		}
		if req.Model != DefaultModel || len(req.Messages) != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient(Config{APIKey: "secret", BaseURL: srv.URL + "/"}, zerolog.Nop())
	got, err := c.Complete(context.Background(), []ports.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestGroqClient_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-200": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
		"no choices": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewGroqClient(Config{APIKey: "k", BaseURL: srv.URL}, zerolog.Nop())
			if _, err := c.Complete(context.Background(), nil); !errors.Is(err, domain.ErrLanguageModel) {
				t.Errorf("expected ErrLanguageModel, got %v", err)
			}
		})
	}
}

func TestGroqClient_MissingKey(t *testing.T) {
	c := NewGroqClient(Config{}, zerolog.Nop())
	if _, err := c.Complete(context.Background(), nil); !errors.Is(err, domain.ErrLanguageModel) {
		t.Errorf("expected ErrLanguageModel, got %v", err)
	}
}
