package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "kreatask-api"
	connectTimeout = 10 * time.Second
	// defaultTimeout bounds every repository call.
	defaultTimeout = 5 * time.Second
)

// Collection names.
const (
	collectionUsers       = "users"
	collectionTasks       = "tasks"
	collectionPermissions = "role_permissions"
	collectionEvents      = "status_events"
)

// Config is the connection settings for the KreaTask database.
type Config struct {
	URI      string
	Database string
	// MaxPoolSize of zero keeps the driver default.
	MaxPoolSize uint64
}

// Connect dials MongoDB, pings the primary and returns the client together
// with the KreaTask database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(connectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}

// now returns the current time at the precision MongoDB stores, so values
// written and read back compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
