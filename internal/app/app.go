package app

import (
	"context"
	"fmt"
	"net/http"

	"go-presence/internal/attendance"
	"go-presence/internal/auth"
	"go-presence/internal/config"
	"go-presence/internal/credential"
	"go-presence/internal/journal"
	"go-presence/internal/location"
	"go-presence/internal/session"
	"go-presence/internal/shared/connection"
	"go-presence/internal/shared/lock"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectRetries = 5

// App holds the wired engine. The CLI and the HTTP agent share it.
type App struct {
	Config  config.Config
	Auth    auth.Service
	Session session.Service
	// Journal is nil when no database is configured.
	Journal journal.Repository
	Redis   *redis.Client

	jwtSecret string
	closers   []func(context.Context)
}

// Build connects the optional infrastructure, wires the services and
// restores a stored identity before returning.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger := zap.L().Named("app")
	a := &App{Config: cfg, jwtSecret: cfg.JWTSecret}

	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, connectRetries)
		if err != nil {
			return nil, err
		}
		a.Redis = rdb
		a.onClose(func(context.Context) { _ = rdb.Close() })
	}

	if cfg.Database.Enabled() {
		db, err := connection.ConnectGORMWithRetry(postgresConfig(cfg.Database), connectRetries)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		if err := journal.Migrate(db); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("migrate journal: %w", err)
		}
		a.Journal = journal.NewRepository(db)
		a.onClose(func(context.Context) {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
	}

	store, err := a.credentialStore(logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	provider, err := locationProvider(cfg.Location)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	a.Auth = auth.NewService(
		auth.NewRepository(store),
		auth.NewAuthenticator(cfg.AuthBaseURL, hc),
	)

	opts := []session.Option{
		session.WithLocationTimeout(cfg.Location.Timeout),
		session.WithLogger(zap.L().Named("session.service")),
	}
	if a.Journal != nil {
		opts = append(opts, session.WithJournal(a.Journal))
	}
	if a.Redis != nil {
		opts = append(opts, session.WithLocker(lock.NewRedisLocker(a.Redis, cfg.Redis.LockTTL)))
	}
	a.Session = session.NewService(a.Auth, attendance.NewClient(cfg.AttendanceBaseURL, hc), provider, opts...)

	// hook first, so a restored identity also primes the session engine
	a.Auth.AddHook(a.Session)
	restored, err := a.Auth.Rehydrate(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("restore identity: %w", err)
	}
	logger.Info("engine ready",
		zap.Bool("identity_restored", restored),
		zap.Bool("journal", a.Journal != nil),
		zap.Bool("redis", a.Redis != nil),
		zap.String("credential_backend", cfg.Credential.Backend),
	)

	if a.jwtSecret == "" {
		// tokens then only survive as long as the process
		a.jwtSecret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, using a per-process secret")
	}

	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}

func (a *App) onClose(fn func(context.Context)) {
	a.closers = append(a.closers, fn)
}

func (a *App) credentialStore(logger *zap.Logger) (credential.Store, error) {
	c := a.Config.Credential
	switch c.Backend {
	case config.CredentialSecure:
		return credential.NewSecureFileStore(c.Dir, a.Config.CredentialKey())
	case config.CredentialPlain:
		return credential.NewPlainFileStore(c.Dir, logger)
	case config.CredentialRedis:
		if a.Redis == nil {
			return nil, fmt.Errorf("redis credential backend needs redis.addr")
		}
		return credential.NewRedisStore(a.Redis, ""), nil
	case config.CredentialMemory:
		return credential.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", c.Backend)
	}
}

func locationProvider(cfg config.LocationConfig) (location.Provider, error) {
	switch cfg.Mode {
	case config.LocationStatic:
		return location.Static{
			Consent:   cfg.Consent,
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}, nil
	case config.LocationHTTP:
		return location.NewHTTPProvider(cfg.URL, cfg.Consent, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, fmt.Errorf("unknown location mode %q", cfg.Mode)
	}
}

func postgresConfig(d config.DatabaseConfig) connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     d.Host,
		User:     d.User,
		Password: d.Password,
		Name:     d.Name,
		Port:     d.Port,
		SSLMode:  d.SSLMode,
	}
}
