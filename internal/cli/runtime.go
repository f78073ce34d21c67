package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dimitrije/stockroom/internal/authclient"
	"github.com/dimitrije/stockroom/internal/authstate"
	"github.com/dimitrije/stockroom/internal/config"
	"github.com/dimitrije/stockroom/internal/database"
	"github.com/dimitrije/stockroom/internal/logger"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sessionKey = "stockroom:session"
	sessionTTL = 30 * 24 * time.Hour
)

// runtime holds the connections a command needs. Close releases all of them.
type runtime struct {
	cfg  *config.ClientConfig
	log  *zap.Logger
	auth *authclient.Client
	db   *database.DB

	profiles *services.ProfileService
	orgs     *services.OrganizationService

	closers []func()
}

func (a *app) openRuntime(cmd *cobra.Command, withDB bool) (*runtime, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	zl, err := logger.New(cfg.Env, level)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: zl}
	rt.closers = append(rt.closers, func() { _ = zl.Sync() })

	storage, closeStorage, err := newSessionStorage(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if closeStorage != nil {
		rt.closers = append(rt.closers, closeStorage)
	}

	rt.auth = authclient.New(authclient.Config{
		URL:     cfg.Auth.URL,
		AnonKey: cfg.Auth.AnonKey,
		Timeout: cfg.Auth.Timeout,
	}, storage, logger.WithComponent(zl, "authclient"))

	if withDB {
		db, err := database.New(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.db = db
		rt.closers = append(rt.closers, db.Close)
		rt.profiles = services.NewProfileService(db)
		rt.orgs = services.NewOrganizationService(db)
	}

	return rt, nil
}

func newSessionStorage(cfg *config.ClientConfig) (authclient.SessionStorage, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return authclient.NewRedisStorage(client, sessionKey, sessionTTL), func() { _ = client.Close() }, nil
	case "file", "":
		path := cfg.SessionFile
		if path == "" {
			p, err := authclient.DefaultSessionPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return authclient.NewFileStorage(path), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// settle starts an auth state manager and waits until it has finished loading.
// The caller must Close the returned manager.
func (rt *runtime) settle(ctx context.Context) (*authstate.Manager, authstate.State, error) {
	m := authstate.NewManager(rt.auth, rt.profiles, rt.orgs, rt.cfg.BootstrapTimeout, rt.log)
	if err := m.Start(ctx); err != nil {
		m.Close()
		return nil, authstate.State{}, err
	}
	st, err := m.Settled(ctx)
	if err != nil {
		m.Close()
		return nil, st, fmt.Errorf("waiting for session: %w", err)
	}
	return m, st, nil
}
