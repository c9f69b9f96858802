package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations return users with their role already normalized.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user in creation order.
	List(ctx context.Context) ([]domain.User, error)
	// UpdateRole sets the role only if the stored record still carries
	// user.UpdatedAt; otherwise it returns domain.ErrConflict.
	UpdateRole(ctx context.Context, user *domain.User, role domain.Role) error
	UpdateAvatar(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}
