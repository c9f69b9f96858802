package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/core/service"
	"github.com/kreatask/kreatask-api/internal/infrastructure/db/mongo"
	"github.com/kreatask/kreatask-api/internal/infrastructure/db/redis"
	"github.com/kreatask/kreatask-api/internal/pkg/config"
	"github.com/kreatask/kreatask-api/pkg/logger"
)

// storage holds the connections and repositories shared by serve and mcp.
type storage struct {
	mongoClient *mongodriver.Client
	db          *mongodriver.Database
	redisClient *goredis.Client

	users       *mongo.UserRepository
	tasks       *mongo.TaskRepository
	permissions *mongo.PermissionRepository
	leaderboard *service.LeaderboardService
}

func (s *storage) Close(ctx context.Context) {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.mongoClient != nil {
		_ = s.mongoClient.Disconnect(ctx)
	}
}

func loadConfig(ctx context.Context, out *os.File) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Output:  out,
		Service: "kreatask",
		Env:     cfg.Env,
		Version: Version,
	})
	return cfg, log, nil
}

// openStorage connects MongoDB and Redis and builds the repositories.
// Redis, and with it the leaderboard cache, is skipped when withRedis is false.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, withRedis bool) (*storage, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, err
	}
	s := &storage{
		mongoClient: client,
		db:          db,
		users:       mongo.NewUserRepository(db, log),
		tasks:       mongo.NewTaskRepository(db),
		permissions: mongo.NewPermissionRepository(db),
	}

	var cache ports.LeaderboardCache
	if withRedis {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.redisClient = rdb
		cache = redis.NewLeaderboardCache(rdb, cfg.Leaderboard.CacheTTL)
	}

	s.leaderboard = service.NewLeaderboardService(s.tasks, s.users, cache, log)
	return s, nil
}

func (s *storage) ensureIndexes(ctx context.Context) error {
	if err := s.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := s.tasks.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("task indexes: %w", err)
	}
	if err := s.permissions.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("permission indexes: %w", err)
	}
	return nil
}

// defaultPermissions returns the seed table, read from path when set.
func defaultPermissions(path string) (domain.PermissionTable, error) {
	if path == "" {
		return domain.DefaultPermissionTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions file: %w", err)
	}
	return domain.ParsePermissionTable(data)
}
