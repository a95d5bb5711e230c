package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/car4rent/authkit/config"
	"github.com/car4rent/authkit/internal/adapters/localstore"
	"github.com/car4rent/authkit/internal/adapters/memstore"
	"github.com/car4rent/authkit/internal/adapters/redisstore"
	"github.com/car4rent/authkit/internal/adapters/restapi"
	"github.com/car4rent/authkit/internal/observability/statsd"
	"github.com/car4rent/authkit/internal/ports"
	"github.com/car4rent/authkit/internal/service"
)

// AuthOptions contains configuration for building the auth service.
type AuthOptions struct {
	Config config.AppConfig
	Logger *slog.Logger
}

// BuildAuthService wires the authority client, the configured session store
// backend, and the metrics sink into an AuthService. The returned cleanup
// releases any connections; it is safe to call once.
func BuildAuthService(opts AuthOptions) (*service.AuthService, func(), error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	authority, err := restapi.NewClient(restapi.Config{
		BaseURL: cfg.Authority.BaseURL,
		Timeout: cfg.Authority.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build authority client: %w", err)
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Statsd.Enabled,
		Address: cfg.Statsd.Address,
		Prefix:  cfg.Statsd.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build statsd client: %w", err)
	}

	sessions, closeStore, err := buildSessionStore(cfg, logger)
	if err != nil {
		_ = metrics.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if closeStore != nil {
			closeStore()
		}
		if cerr := metrics.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Authority: authority,
		Sessions:  sessions,
		Metrics:   metrics,
		Logger:    logger,
	})
	return svc, cleanup, nil
}

func buildSessionStore(cfg config.AppConfig, logger *slog.Logger) (ports.SessionStore, func(), error) {
	switch cfg.Session.Backend {
	case config.StoreFile:
		dir := cfg.Session.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve home directory for session store: %w", err)
			}
			dir = filepath.Join(home, ".car4rent")
		}
		store, err := localstore.New(localstore.Config{Dir: dir, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("build file session store: %w", err)
		}
		return store, nil, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store, err := redisstore.New(redisstore.Config{
			Client:  client,
			Profile: cfg.Session.Profile,
			TTL:     cfg.Session.TTL,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("build redis session store: %w", err)
		}
		closeFn := func() {
			if cerr := client.Close(); cerr != nil {
				logger.Warn("close redis client failed", "error", cerr)
			}
		}
		return store, closeFn, nil

	case config.StoreMemory:
		return memstore.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session backend: %q", cfg.Session.Backend)
	}
}
