package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// TaskSuggestion is a task drafted by the assistant.
type TaskSuggestion struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
}

// AssistantService wraps the language model with KreaTask context.
type AssistantService interface {
	Summarize(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, language string) (string, error)
	SuggestTasks(ctx context.Context, brief string) ([]TaskSuggestion, error)
	Chat(ctx context.Context, actor domain.Actor, query string) (string, error)
}
