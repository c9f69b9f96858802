package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// PermissionService administers the permission table and acts as the
// Authorizer for the rest of the system.
type PermissionService interface {
	Authorizer
	Table(ctx context.Context) ([]domain.PermissionEntry, error)
	Set(ctx context.Context, actor domain.Actor, role, action string, allowed bool) (*domain.PermissionEntry, error)
	// Seed stores the default table when none is persisted yet.
	Seed(ctx context.Context, defaults domain.PermissionTable) error
}
