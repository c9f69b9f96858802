package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// PermissionsFile overrides the embedded default permission table used
	// to seed an empty role_permissions collection.
	PermissionsFile string `env:"PERMISSIONS_FILE"`
	EventWorkers    int    `env:"EVENT_WORKERS, default=8"`

	Mongo       MongoConfig
	Redis       RedisConfig
	Leaderboard LeaderboardConfig
	Groq        GroqConfig
	Cloudinary  CloudinaryConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=kreatask"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type LeaderboardConfig struct {
	CacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL, default=1m"`
}

type GroqConfig struct {
	APIKey  string `env:"GROQ_API_KEY"`
	Model   string `env:"GROQ_MODEL,    default=llama-3.1-8b-instant"`
	BaseURL string `env:"GROQ_BASE_URL, default=https://api.groq.com/openai/v1"`
}

type CloudinaryConfig struct {
	// URL has the form cloudinary://<api_key>:<api_secret>@<cloud_name>.
	URL string `env:"CLOUDINARY_URL"`
}

// developmentSecret signs tokens when JWT_SECRET is unset in development.
const developmentSecret = "kreatask-dev-secret"

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config: JWT_SECRET is required outside development")
		}
		c.JWTSecret = developmentSecret
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.EventWorkers <= 0 {
		return errors.New("config: EVENT_WORKERS must be positive")
	}
	return nil
}
