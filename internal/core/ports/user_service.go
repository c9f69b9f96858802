package ports

import (
	"context"
	"io"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// UserService manages accounts and role assignment.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	ChangeRole(ctx context.Context, actor domain.Actor, targetID, role string) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, targetID string) error
	UpdateAvatar(ctx context.Context, actor domain.Actor, file io.Reader) (*domain.User, error)
}
