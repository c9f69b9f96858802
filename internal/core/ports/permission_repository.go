package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// PermissionRepository stores the role/action table.
type PermissionRepository interface {
	List(ctx context.Context) ([]domain.PermissionEntry, error)
	Upsert(ctx context.Context, entry domain.PermissionEntry) error
	// SeedIfEmpty writes entries only when the collection holds none.
	// It reports whether anything was written.
	SeedIfEmpty(ctx context.Context, entries []domain.PermissionEntry) (bool, error)
}
