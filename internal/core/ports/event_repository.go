package ports

import (
	"context"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// EventRepository persists the status event audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.StatusEvent) error
}
