package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// AuthService registers accounts and issues access tokens.
type AuthService interface {
	// Register creates an account with role Unassigned.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
