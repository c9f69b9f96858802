package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kreatask/kreatask-api/internal/api"
	"github.com/kreatask/kreatask-api/internal/api/handler"
	"github.com/kreatask/kreatask-api/internal/core/ports"
	"github.com/kreatask/kreatask-api/internal/core/service"
	"github.com/kreatask/kreatask-api/internal/infrastructure/db/mongo"
	"github.com/kreatask/kreatask-api/internal/infrastructure/db/redis"
	"github.com/kreatask/kreatask-api/internal/infrastructure/llm"
	"github.com/kreatask/kreatask-api/internal/infrastructure/queue"
	"github.com/kreatask/kreatask-api/internal/infrastructure/storage/cloudinary"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, log, err := loadConfig(ctx, os.Stdout)
	if err != nil {
		return err
	}

	st, err := openStorage(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if err := st.ensureIndexes(ctx); err != nil {
		return err
	}

	permissions := service.NewPermissionService(st.permissions, log)
	defaults, err := defaultPermissions(cfg.PermissionsFile)
	if err != nil {
		return err
	}
	if err := permissions.Seed(ctx, defaults); err != nil {
		return err
	}

	var uploader ports.AvatarUploader
	if cfg.Cloudinary.URL != "" {
		u, err := cloudinary.NewAvatarUploader(cfg.Cloudinary.URL)
		if err != nil {
			return err
		}
		uploader = u
	} else {
		log.Warn().Msg("CLOUDINARY_URL not set, avatar uploads are disabled")
	}

	if cfg.Groq.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY not set, assistant requests will fail")
	}
	model := llm.NewGroqClient(llm.Config{
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
		BaseURL: cfg.Groq.BaseURL,
	}, log)

	auth := service.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL, log)
	tasks := service.NewTaskService(st.tasks, st.users, permissions, st.leaderboard, log)
	users := service.NewUserService(st.users, permissions, uploader, st.leaderboard, log)
	assistant := service.NewAssistantService(model, st.leaderboard, st.tasks, st.users, log)

	events := service.NewEventService(tasks, mongo.NewEventRepository(st.db), redis.NewDedupChecker(st.redisClient), log)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, events, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		JWTSecret:   cfg.JWTSecret,
		Users:       st.users,
		Auth:        auth,
		Tasks:       tasks,
		UserAdmin:   users,
		Leaderboard: st.leaderboard,
		Permissions: permissions,
		Assistant:   assistant,
		Events:      dispatcher,
		Readiness: map[string]handler.Pinger{
			"mongo": handler.PingFunc(func(ctx context.Context) error { return st.mongoClient.Ping(ctx, nil) }),
			"redis": handler.PingFunc(func(ctx context.Context) error { return st.redisClient.Ping(ctx).Err() }),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	stopWorkers()
	return nil
}
