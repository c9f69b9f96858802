package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/pkg/metrics"
)

type UserService struct {
	users       ports.UserRepository
	gate        ports.Authorizer
	uploader    ports.AvatarUploader
	leaderboard ports.LeaderboardInvalidator
	log         zerolog.Logger
}

// NewUserService builds the service. uploader may be nil when avatar storage
// is not configured.
func NewUserService(
	users ports.UserRepository,
	gate ports.Authorizer,
	uploader ports.AvatarUploader,
	leaderboard ports.LeaderboardInvalidator,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, gate: gate, uploader: uploader, leaderboard: leaderboard, log: log}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// ChangeRole assigns a canonical role to another user. The permission gate
// decides whether the actor may touch the target at all; CanAssignRole then
// limits which roles the actor may hand out.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Actor, targetID, role string) (*domain.User, error) {
	newRole, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("change role: %w: %q", domain.ErrUnknownRole, role)
	}
	if actor.ID == targetID {
		return nil, domain.ErrSelfTarget
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, actor, domain.ActionChangeRole, target); err != nil {
		return nil, err
	}
	if !domain.CanAssignRole(actor.Role, newRole) {
		return nil, fmt.Errorf("%w: %s may not assign %s", domain.ErrPermissionDenied, actor.Role, newRole)
	}

	previous := target.Role
	if err := s.users.UpdateRole(ctx, target, newRole); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	target.Role = newRole
	target.UpdatedAt = time.Now().UTC()

	metrics.RoleChangesTotal.WithLabelValues(string(newRole)).Inc()
	s.leaderboard.Invalidate(ctx)

	s.log.Info().
		Str("actor", actor.ID).
		Str("target", targetID).
		Str("from", string(previous)).
		Str("to", string(newRole)).
		Msg("role changed")
	return target, nil
}

// Delete removes an account. Tasks keep the id in their assignee lists; the
// aggregator skips ids that no longer resolve.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, targetID string) error {
	if actor.ID == targetID {
		return domain.ErrSelfTarget
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.gate.Authorize(ctx, actor, domain.ActionDeleteUser, target); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.leaderboard.Invalidate(ctx)

	s.log.Info().Str("actor", actor.ID).Str("target", targetID).Msg("user deleted")
	return nil
}

// UpdateAvatar stores a new profile image for the actor.
func (s *UserService) UpdateAvatar(ctx context.Context, actor domain.Actor, file io.Reader) (*domain.User, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: avatar storage is not configured", domain.ErrInvalidInput)
	}

	url, err := s.uploader.UploadAvatar(ctx, actor.ID, file)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.users.UpdateAvatar(ctx, actor.ID, url); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	s.leaderboard.Invalidate(ctx)

	return s.users.FindByID(ctx, actor.ID)
}
