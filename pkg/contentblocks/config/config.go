package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/content-blocks/pkg/contentblocks"
	"github.com/tendant/content-blocks/pkg/contentblocks/repo/memory"
	repomongo "github.com/tendant/content-blocks/pkg/contentblocks/repo/mongo"
	repopg "github.com/tendant/content-blocks/pkg/contentblocks/repo/postgres"
)

// Database types
const (
	DatabaseMemory   = "memory"
	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
)

// DefaultAdminIPs is the whitelist used when ADMIN_IPS is not set
var DefaultAdminIPs = []string{"127.0.0.1", "99.98.184.48", "172.23.3.64", "66.193.5.119", "50.58.91.98", "152.26.239.66"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.resolveDatabase(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		IPAddress:    "0.0.0.0",
		Port:         "8080",
		Host:         "localhost",
		Environment:  "development",
		DatabaseType: DatabaseMemory,
		DatabaseName: "camsc",
		Collection:   "content",
		AdminIPs:     append([]string(nil), DefaultAdminIPs...),
		PagesDir:     "./views",
		LogLevel:     "info",
	}
}

// ServerConfig represents server configuration for the content-blocks service
type ServerConfig struct {
	IPAddress   string `env:"IP,OPENSHIFT_NODEJS_IP" validate:"required,ip"`
	Port        string `env:"PORT,OPENSHIFT_NODEJS_PORT" validate:"required,numeric"`
	Host        string `env:"OPENSHIFT_APP_DNS"`
	Environment string `env:"ENVIRONMENT" validate:"oneof=development production testing"`

	// Database configuration
	DatabaseURL         string `env:"OPENSHIFT_MONGODB_DB_URL,MONGO_URL,DATABASE_URL"`
	DatabaseType        string `validate:"oneof=memory mongo postgres"` // resolved from DatabaseURL
	DatabaseName        string `env:"DATABASE_NAME" validate:"required"`
	DatabaseServiceName string `env:"DATABASE_SERVICE_NAME"`
	Collection          string `env:"CONTENT_COLLECTION" validate:"required"`

	// HTTP options
	AdminIPs       []string      `env:"ADMIN_IPS" env-separator:"," validate:"dive,ip"`
	PagesDir       string        `env:"PAGES_DIR"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gte=0"`
	LogLevel       string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.IPAddress, c.Port)
}

// SlogLevel maps LogLevel onto a slog level
func (c *ServerConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q check", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.DatabaseType != DatabaseMemory && c.DatabaseURL == "" {
		return fmt.Errorf("database url is required when using %s", c.DatabaseType)
	}
	return nil
}

// BuildRepository connects to the configured store. The returned cleanup
// function releases the connection and is never nil.
func (c *ServerConfig) BuildRepository(ctx context.Context) (contentblocks.Repository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch c.DatabaseType {
	case DatabaseMemory:
		return memory.New(), noop, nil

	case DatabaseMongo:
		repo, err := repomongo.Connect(ctx, c.DatabaseURL, c.MongoDatabase(), c.Collection)
		if err != nil {
			return nil, noop, err
		}
		return repo, repo.Close, nil

	case DatabasePostgres:
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := repopg.NewWithPool(pool, c.Collection)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return repo, func(context.Context) error { pool.Close(); return nil }, nil

	default:
		return nil, noop, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (contentblocks.Service, func(context.Context) error, error) {
	repo, cleanup, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to build repository: %w", err)
	}

	svc, err := contentblocks.New(
		contentblocks.WithRepository(repo),
		contentblocks.WithLogger(logger),
	)
	if err != nil {
		_ = cleanup(ctx)
		return nil, func(context.Context) error { return nil }, err
	}
	return svc, cleanup, nil
}
