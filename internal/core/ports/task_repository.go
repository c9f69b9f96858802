package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// TaskFilter carries the query parameters for listing tasks.
type TaskFilter struct {
	Status   domain.TaskStatus // optional
	Category domain.Category   // optional
	Assignee string            // optional: user id
	Search   string            // optional: partial match on title
	Page     int               // 1-based, List only
	Limit    int               // max rows per page, List only
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns a page of tasks matching filter and the total count.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int64, error)
	// Find returns every task matching filter, ignoring pagination.
	Find(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// Update replaces the editable fields and the score snapshot.
	Update(ctx context.Context, t *domain.Task) error
	// UpdateStatus persists status, completion date, score snapshot and
	// reviewer only if the stored status still equals from.
	UpdateStatus(ctx context.Context, t *domain.Task, from domain.TaskStatus) error
	// AppendRevision pushes a revision and moves the task from -> to atomically.
	AppendRevision(ctx context.Context, id string, rev domain.Revision, from, to domain.TaskStatus) error
	AppendComment(ctx context.Context, id string, c domain.Comment) error
	Delete(ctx context.Context, id string) error
}
