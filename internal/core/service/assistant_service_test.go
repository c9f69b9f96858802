package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

func newAssistantSvc(llm *stubLLM, tasks *stubTaskRepo) *AssistantService {
	users := newStubUserRepo(staff()...)
	lb := NewLeaderboardService(tasks, users, nil, zerolog.Nop())
	return NewAssistantService(llm, lb, tasks, users, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// SuggestTasks
// ---------------------------------------------------------------------------

func TestAssistantService_SuggestTasks_DropsUnknownCategories(t *testing.T) {
	llm := &stubLLM{reply: "```json\n[" +
		`{"title": "Design key visual", "description": "Main poster", "category": "High"},` +
		`{"title": "Cut teaser", "category": "urgent"},` +
		`{"title": "  ", "category": "Low"},` +
		`{"title": "Write captions", "category": "low"}` +
		"]\n```"}
	svc := newAssistantSvc(llm, newStubTaskRepo())

	got, err := svc.SuggestTasks(context.Background(), "Launch campaign for a coffee brand")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", got)
	}
	if got[0].Category != domain.CategoryHigh || got[1].Category != domain.CategoryLow {
		t.Errorf("unexpected categories: %+v", got)
	}
}

func TestAssistantService_SuggestTasks_MalformedReply(t *testing.T) {
	svc := newAssistantSvc(&stubLLM{reply: "Sure! Here are some tasks."}, newStubTaskRepo())
	if _, err := svc.SuggestTasks(context.Background(), "brief"); !errors.Is(err, domain.ErrLanguageModel) {
		t.Errorf("expected ErrLanguageModel, got %v", err)
	}
}

func TestAssistantService_EmptyInput(t *testing.T) {
	llm := &stubLLM{reply: "x"}
	svc := newAssistantSvc(llm, newStubTaskRepo())
	ctx := context.Background()

	if _, err := svc.Summarize(ctx, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Summarize: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Translate(ctx, "halo", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Translate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Chat(ctx, actorOf(rina), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Chat: expected ErrInvalidInput, got %v", err)
	}
	if len(llm.calls) != 0 {
		t.Errorf("model must not be called on empty input, got %d calls", len(llm.calls))
	}
}

// ---------------------------------------------------------------------------
// Summarize / Translate
// ---------------------------------------------------------------------------

func TestAssistantService_Translate_PutsLanguageInSystemPrompt(t *testing.T) {
	llm := &stubLLM{reply: "  Good morning  "}
	svc := newAssistantSvc(llm, newStubTaskRepo())

	got, err := svc.Translate(context.Background(), "Selamat pagi", "English")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Good morning" {
		t.Errorf("expected trimmed reply, got %q", got)
	}
	msgs := llm.calls[0]
	if msgs[0].Role != "system" || !strings.Contains(msgs[0].Content, "English") {
		t.Errorf("unexpected system message: %+v", msgs[0])
	}
	if msgs[1].Role != "user" || msgs[1].Content != "Selamat pagi" {
		t.Errorf("unexpected user message: %+v", msgs[1])
	}
}

func TestAssistantService_ProviderErrorIsWrapped(t *testing.T) {
	svc := newAssistantSvc(&stubLLM{err: errors.New("connection reset")}, newStubTaskRepo())
	_, err := svc.Summarize(context.Background(), "long text")
	if !errors.Is(err, domain.ErrLanguageModel) {
		t.Errorf("expected ErrLanguageModel, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func TestAssistantService_Chat_ContextMatchesLeaderboard(t *testing.T) {
	tasks := newStubTaskRepo(
		completed("Poster", domain.CategoryHigh, 15, 14, rina.ID),
		completed("Teaser", domain.CategoryMedium, 20, 20, fadil.ID),
	)
	llm := &stubLLM{reply: "Rina leads with 45 points."}
	svc := newAssistantSvc(llm, tasks)

	reply, err := svc.Chat(context.Background(), actorOf(fadil), "How is rina doing this month?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Rina leads with 45 points." {
		t.Errorf("unexpected reply %q", reply)
	}

	prompt := llm.lastPrompt()
	for _, want := range []string{
		"#1 Rina",
		"45 points",
		"\nRina (",
		`"Poster" [High]: base 40, bonus 5`,
		"\nFadil (",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "\nBudi (") {
		t.Errorf("unmentioned user must not get a detail block:\n%s", prompt)
	}
}

func TestMentionedUsers_FuzzyMatch(t *testing.T) {
	users := []domain.User{
		{ID: "1", Name: "Rina Kusuma"},
		{ID: "2", Name: "Fadil"},
		{ID: "3", Name: "Dewi"},
	}

	got := mentionedUsers("compare rina kusumah with fadill", users)
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("expected [1 2], got %v", got)
	}
	if got := mentionedUsers("who finished the most tasks?", users); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"[]":                "[]",
		"```json\n[1]\n```": "[1]",
		"```\n[2]```":       "[2]",
		"  [3]  ":           "[3]",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
