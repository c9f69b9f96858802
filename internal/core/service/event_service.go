package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, taskID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, taskID, status string, ts time.Time) error
}

type eventService struct {
	tasks     ports.TaskService
	eventRepo ports.EventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService that applies queued moves through
// the task service, so queued and direct moves obey the same rules.
func NewEventService(
	tasks ports.TaskService,
	eventRepo ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		tasks:     tasks,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process deduplicates, applies and audits a single status event.
func (s *eventService) Process(ctx context.Context, in ports.StatusEventInput) error {
	start := time.Now()

	// 1. Idempotency check; duplicates are skipped.
	isDup, err := s.dedup.IsDuplicate(ctx, in.TaskID, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("task_id", in.TaskID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.StatusEventsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("task_id", in.TaskID).Str("status", in.Status).Msg("duplicate event skipped")
		return nil
	}
	metrics.StatusEventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Apply through the task service (transition + permission rules).
	task, err := s.tasks.ChangeStatus(ctx, in.Actor, ports.ChangeStatusInput{
		TaskID:      in.TaskID,
		Status:      in.Status,
		CompletedOn: in.CompletedOn,
	})
	if err != nil {
		metrics.StatusEventsErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		metrics.StatusEventDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Mark as processed so replays are skipped.
	if markErr := s.dedup.Mark(ctx, in.TaskID, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("task_id", in.TaskID).Msg("failed to set dedup key")
	}

	// 4. Insert into audit trail (non-fatal on failure).
	audit := &domain.StatusEvent{
		TaskID:      in.TaskID,
		Status:      task.Status,
		Timestamp:   in.Timestamp.UTC(),
		CompletedOn: task.CompletedOn,
		ActorID:     in.Actor.ID,
		Source:      in.Source,
		ProcessedAt: time.Now().UTC(),
	}
	if err := s.eventRepo.InsertEvent(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("task_id", in.TaskID).Msg("failed to insert audit event")
	}

	metrics.StatusEventsProcessedTotal.WithLabelValues(string(task.Status)).Inc()
	metrics.StatusEventDuration.WithLabelValues(string(task.Status)).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("task_id", in.TaskID).
		Str("status", string(task.Status)).
		Str("source", in.Source).
		Msg("event processed")

	return nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_transition"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "task_not_found"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	}
	return "update_failed"
}
