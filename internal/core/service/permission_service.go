package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/pkg/metrics"
)

// tableTTL bounds how long another instance's edit can go unnoticed.
const tableTTL = 30 * time.Second

// PermissionService is the permission gate backed by the persisted table.
type PermissionService struct {
	repo ports.PermissionRepository
	log  zerolog.Logger
	now  func() time.Time

	mu       sync.RWMutex
	table    domain.PermissionTable
	loadedAt time.Time
}

func NewPermissionService(repo ports.PermissionRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{repo: repo, log: log, now: time.Now}
}

// Seed stores defaults when the collection is empty. An existing table is
// left untouched.
func (s *PermissionService) Seed(ctx context.Context, defaults domain.PermissionTable) error {
	seeded, err := s.repo.SeedIfEmpty(ctx, defaults.Entries())
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if seeded {
		s.log.Info().Int("entries", len(defaults.Entries())).Msg("permission table seeded")
	}
	s.invalidate()
	return nil
}

// Authorize applies domain.CanPerform against the current table.
func (s *PermissionService) Authorize(ctx context.Context, actor domain.Actor, action domain.Action, target *domain.User) error {
	table, err := s.current(ctx)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if !domain.CanPerform(table, actor, action, target) {
		metrics.PermissionDenialsTotal.WithLabelValues(string(action)).Inc()
		s.log.Debug().
			Str("actor", actor.ID).
			Str("role", string(actor.Role)).
			Str("action", string(action)).
			Msg("permission denied")
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, action)
	}
	return nil
}

func (s *PermissionService) Table(ctx context.Context) ([]domain.PermissionEntry, error) {
	table, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return table.Entries(), nil
}

// Set changes one entry. SuperAdmin rows are rejected because that role
// bypasses the table.
func (s *PermissionService) Set(ctx context.Context, actor domain.Actor, role, action string, allowed bool) (*domain.PermissionEntry, error) {
	if err := s.Authorize(ctx, actor, domain.ActionManageSettings, nil); err != nil {
		return nil, err
	}

	r := domain.Role(role)
	if !r.Valid() || r.IsSuperAdmin() {
		return nil, fmt.Errorf("set permission: %w: %q", domain.ErrUnknownRole, role)
	}
	a, err := domain.ParseAction(action)
	if err != nil {
		return nil, fmt.Errorf("set permission: %w", err)
	}

	entry := domain.PermissionEntry{Role: r, Action: a, Allowed: allowed}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("set permission: %w", err)
	}
	s.invalidate()

	s.log.Info().
		Str("actor", actor.ID).
		Str("role", role).
		Str("action", action).
		Bool("allowed", allowed).
		Msg("permission updated")
	return &entry, nil
}

func (s *PermissionService) current(ctx context.Context) (domain.PermissionTable, error) {
	s.mu.RLock()
	if s.table != nil && s.now().Sub(s.loadedAt) < tableTTL {
		t := s.table
		s.mu.RUnlock()
		return t, nil
	}
	s.mu.RUnlock()

	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	t := domain.FromEntries(entries)

	s.mu.Lock()
	s.table = t
	s.loadedAt = s.now()
	s.mu.Unlock()
	return t, nil
}

func (s *PermissionService) invalidate() {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
}
