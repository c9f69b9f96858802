package ports

import (
	"context"
	"time"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// StatusEventInput is the DTO passed from the transport layer to EventService.
type StatusEventInput struct {
	TaskID      string
	Status      string
	Timestamp   time.Time
	CompletedOn *time.Time // optional, only read when moving to Completed
	Source      string
	Actor       domain.Actor
}

// EventService processes queued status moves.
type EventService interface {
	Process(ctx context.Context, event StatusEventInput) error
}
