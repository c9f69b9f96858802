package ports

import (
	"context"
	"io"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// LeaderboardCache stores computed rankings per mode under a generation.
// Get returns a nil ranking on a miss, together with the generation it read.
// Set stores lb under gen; once Invalidate has moved past gen the write is
// never served.
type LeaderboardCache interface {
	Get(ctx context.Context, mode domain.LeaderboardMode) (*domain.Leaderboard, int64, error)
	Set(ctx context.Context, lb *domain.Leaderboard, gen int64) error
	Invalidate(ctx context.Context) error
}

// ChatMessage is one turn of a language model conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LanguageModel is a chat completion provider.
type LanguageModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// AvatarUploader stores a profile image and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error)
}

// Authorizer is the permission gate as seen by services and middleware. It
// returns domain.ErrPermissionDenied when the actor may not act.
type Authorizer interface {
	Authorize(ctx context.Context, actor domain.Actor, action domain.Action, target *domain.User) error
}

// LeaderboardInvalidator is notified after every mutation that can move a
// ranking.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context)
}
