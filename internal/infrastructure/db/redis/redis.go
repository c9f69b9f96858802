// Package redis holds the Redis-backed adapters: the leaderboard cache and
// the status event dedup checker.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName  = "kreatask-api"
	dialTimeout = 5 * time.Second
)

// Config is the connection settings for the shared Redis instance.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize of zero keeps the go-redis default (10 per CPU).
	PoolSize int
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		ClientName:  clientName,
		DialTimeout: dialTimeout,
	}
}

// Connect opens a client and fails fast if the server does not answer a PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
