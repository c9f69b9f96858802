package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/pkg/metrics"
)

// LeaderboardService loads the storage snapshot, runs domain.Aggregate and
// caches the full ranking per mode. Cache failures are logged and never fail
// a request.
type LeaderboardService struct {
	tasks ports.TaskRepository
	users ports.UserRepository
	cache ports.LeaderboardCache
	log   zerolog.Logger
}

func NewLeaderboardService(tasks ports.TaskRepository, users ports.UserRepository, cache ports.LeaderboardCache, log zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{tasks: tasks, users: users, cache: cache, log: log}
}

// Compute returns the top limit entries; limit <= 0 returns everyone.
func (s *LeaderboardService) Compute(ctx context.Context, mode string, limit int) (*ports.LeaderboardResult, error) {
	m, err := domain.ParseLeaderboardMode(mode)
	if err != nil {
		return nil, err
	}
	lb, err := s.load(ctx, m)
	if err != nil {
		return nil, err
	}
	return &ports.LeaderboardResult{
		Mode:    lb.Mode,
		Entries: lb.Top(limit),
		Total:   len(lb.Entries),
		Faults:  lb.Faults,
	}, nil
}

// Standing returns one user's entry. A user outside the mode's population is
// reported as not found.
func (s *LeaderboardService) Standing(ctx context.Context, userID, mode string) (*ports.Standing, error) {
	m, err := domain.ParseLeaderboardMode(mode)
	if err != nil {
		return nil, err
	}
	lb, err := s.load(ctx, m)
	if err != nil {
		return nil, err
	}
	entry, ok := lb.Find(userID)
	if !ok {
		return nil, fmt.Errorf("standing: %w: %s not ranked in %s mode", domain.ErrUserNotFound, userID, m)
	}
	return &ports.Standing{Entry: entry, Total: len(lb.Entries)}, nil
}

// Invalidate drops every cached ranking.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}

func (s *LeaderboardService) load(ctx context.Context, mode domain.LeaderboardMode) (*domain.Leaderboard, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx, mode)
		switch {
		case err != nil:
			metrics.LeaderboardRequestsTotal.WithLabelValues(string(mode), "error").Inc()
			s.log.Warn().Err(err).Str("mode", string(mode)).Msg("leaderboard cache read failed, recomputing")
		case cached != nil:
			metrics.LeaderboardRequestsTotal.WithLabelValues(string(mode), "hit").Inc()
			return cached, nil
		default:
			metrics.LeaderboardRequestsTotal.WithLabelValues(string(mode), "miss").Inc()
			gen, cacheable = g, true
		}
	}

	lb, err := s.compute(ctx, mode)
	if err != nil {
		return nil, err
	}

	// The write is tagged with the generation read before the snapshot was
	// loaded, so an Invalidate that lands mid-compute discards it.
	if cacheable {
		if err := s.cache.Set(ctx, lb, gen); err != nil {
			s.log.Warn().Err(err).Str("mode", string(mode)).Msg("leaderboard cache write failed")
		}
	}
	return lb, nil
}

func (s *LeaderboardService) compute(ctx context.Context, mode domain.LeaderboardMode) (*domain.Leaderboard, error) {
	start := time.Now()
	defer func() {
		metrics.LeaderboardComputeDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: load users: %w", err)
	}
	tasks, err := s.tasks.Find(ctx, ports.TaskFilter{Status: domain.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("leaderboard: load tasks: %w", err)
	}

	lb, err := domain.Aggregate(tasks, users, mode)
	if err != nil {
		return nil, err
	}

	for _, f := range lb.Faults {
		metrics.ScoringFaultsTotal.WithLabelValues(f.Reason).Inc()
		s.log.Warn().Str("task_id", f.TaskID).Str("reason", f.Reason).Msg("completed task skipped by leaderboard")
	}
	s.log.Debug().
		Str("mode", string(mode)).
		Int("users", len(lb.Entries)).
		Int("tasks", len(tasks)).
		Int("faults", len(lb.Faults)).
		Msg("leaderboard computed")
	return lb, nil
}
