package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

const (
	leaderboardKeyPrefix  = "leaderboard:"
	leaderboardGenKey     = "leaderboard:gen"
	defaultLeaderboardTTL = time.Minute
)

// LeaderboardCache keeps one JSON-encoded ranking per mode and generation.
// Key format: leaderboard:<gen>:<mode>. Invalidate bumps leaderboard:gen, so
// rankings written under an older generation are never read again and
// simply expire.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a cache whose entries expire after ttl.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = defaultLeaderboardTTL
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

// cachedLeaderboard carries fault reasons across the round trip; the error
// values themselves are not serialisable.
type cachedLeaderboard struct {
	Mode    domain.LeaderboardMode    `json:"mode"`
	Entries []domain.LeaderboardEntry `json:"entries"`
	Faults  []domain.ScoringFault     `json:"faults,omitempty"`
}

func (c *LeaderboardCache) Get(ctx context.Context, mode domain.LeaderboardMode) (*domain.Leaderboard, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	raw, err := c.client.Get(ctx, rankingKey(gen, mode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("leaderboard cache get: %w", err)
	}

	var cached cachedLeaderboard
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, 0, fmt.Errorf("leaderboard cache decode: %w", err)
	}
	return &domain.Leaderboard{Mode: cached.Mode, Entries: cached.Entries, Faults: cached.Faults}, gen, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, lb *domain.Leaderboard, gen int64) error {
	raw, err := json.Marshal(cachedLeaderboard{Mode: lb.Mode, Entries: lb.Entries, Faults: lb.Faults})
	if err != nil {
		return fmt.Errorf("leaderboard cache encode: %w", err)
	}
	return c.client.Set(ctx, rankingKey(gen, lb.Mode), raw, c.ttl).Err()
}

// Invalidate retires every cached mode by moving to the next generation.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, leaderboardGenKey).Err(); err != nil {
		return fmt.Errorf("leaderboard cache invalidate: %w", err)
	}
	return nil
}

func (c *LeaderboardCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, leaderboardGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard cache generation: %w", err)
	}
	return gen, nil
}

func rankingKey(gen int64, mode domain.LeaderboardMode) string {
	return leaderboardKeyPrefix + strconv.FormatInt(gen, 10) + ":" + string(mode)
}
