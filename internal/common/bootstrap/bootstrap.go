package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	"github.com/AlibekovAA/puppies-api/internal/common/config"
	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	"github.com/AlibekovAA/puppies-api/internal/common/db"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	feedservice "github.com/AlibekovAA/puppies-api/internal/feed/service"
	likerepo "github.com/AlibekovAA/puppies-api/internal/like/repository"
	likeservice "github.com/AlibekovAA/puppies-api/internal/like/service"
	"github.com/AlibekovAA/puppies-api/internal/likestream"
	postrepo "github.com/AlibekovAA/puppies-api/internal/post/repository"
	postservice "github.com/AlibekovAA/puppies-api/internal/post/service"
	sessionservice "github.com/AlibekovAA/puppies-api/internal/session/service"
	"github.com/AlibekovAA/puppies-api/internal/session/store"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
	userservice "github.com/AlibekovAA/puppies-api/internal/user/service"
)

type Repositories struct {
	Users userrepo.Repository
	Posts postrepo.Repository
	Likes likerepo.Repository
}

type App struct {
	Config   config.APIConfig
	Log      *logger.Logger
	Pool     *pgxpool.Pool
	SQLDB    *sql.DB
	Ping     commonhttp.Pinger
	Sessions store.Store
	Hub      *likestream.Hub

	Users *userservice.UserService
	Posts *postservice.PostService
	Likes *likeservice.LikeService
	Feed  *feedservice.FeedService
	Auth  *sessionservice.AuthService

	cancel context.CancelFunc
}

func NewAPIApp() (*App, error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "api", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, Log: log, cancel: cancel}

	repos, err := app.openStorage(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	clk := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()
	hasher := commoncrypto.NewBcryptHasher(0)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "storage",
		Logger:     log,
		IsFailure:  IsStorageFailure,
	})

	app.Sessions = newSessionStore(ctx, cfg, idGenerator, clk, log)
	app.Hub = likestream.NewHub(log)
	go app.Hub.Run(ctx)

	app.Users = userservice.NewUserService(repos.Users, repos.Posts, repos.Likes, hasher, idGenerator, clk, breaker, log)
	app.Posts = postservice.NewPostService(repos.Posts, repos.Users, idGenerator, clk, breaker, log)
	app.Likes = likeservice.NewLikeService(repos.Likes, repos.Users, repos.Posts, idGenerator, clk, breaker, app.Hub, log)
	app.Feed = feedservice.NewFeedService(repos.Posts, repos.Users, repos.Likes, clk, breaker, cfg.MaxPageSize, log)
	app.Auth = sessionservice.NewAuthService(repos.Users, hasher, app.Sessions, breaker, log)

	return app, nil
}

func (a *App) openStorage(ctx context.Context) (Repositories, error) {
	switch a.Config.StorageDriver {
	case config.StorageDriverSQLite:
		sqlDB, err := db.OpenSQLite(ctx, a.Config.SQLitePath)
		if err != nil {
			return Repositories{}, err
		}
		a.SQLDB = sqlDB
		a.Ping = sqlDB.PingContext
		db.StartSQLMetrics(ctx, sqlDB, constants.DBPoolMetricsInterval)
		a.Log.Infof("storage: sqlite at %s", a.Config.SQLitePath)
		return Repositories{
			Users: userrepo.NewSQLiteRepository(sqlDB),
			Posts: postrepo.NewSQLiteRepository(sqlDB),
			Likes: likerepo.NewSQLiteRepository(sqlDB),
		}, nil

	default:
		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return Repositories{}, err
		}
		if err := db.ApplyPostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return Repositories{}, err
		}
		a.Pool = pool
		a.Ping = pool.Ping
		db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)
		return Repositories{
			Users: userrepo.NewPgRepository(pool, a.Log),
			Posts: postrepo.NewPgRepository(pool, a.Log),
			Likes: likerepo.NewPgRepository(pool, a.Log),
		}, nil
	}
}

func newSessionStore(ctx context.Context, cfg config.APIConfig, idGenerator commoncrypto.IDGenerator, clk clock.Clock, log *logger.Logger) store.Store {
	if cfg.SessionMode == config.SessionModeSigned {
		signed := store.NewSignedStore(cfg.SessionSecret, cfg.SessionTTL, idGenerator, clk, log)
		signed.StartCleanup(ctx, constants.SessionCleanupInterval)
		log.Infof("sessions: signed tokens, ttl %v", cfg.SessionTTL)
		return signed
	}
	log.Infof("sessions: opaque in-memory tokens")
	return store.NewOpaqueStore(clk, log)
}

// IsStorageFailure reports whether err says something about the health of
// storage. Lookups that find nothing and callers giving up do not.
func IsStorageFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled),
		errors.Is(err, userrepo.ErrUserNotFound),
		errors.Is(err, userrepo.ErrEmailAlreadyExists),
		errors.Is(err, postrepo.ErrPostNotFound):
		return false
	default:
		return true
	}
}

// Close stops background work and releases storage. It is safe to call
// once from a shutdown hook.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if err := a.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sessions: %w", err))
	}

	a.cancel()
	select {
	case <-a.Hub.Done():
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("like stream hub: %w", ctx.Err()))
	}

	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.SQLDB != nil {
		if err := a.SQLDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sqlite: %w", err))
		}
	}

	return errors.Join(errs...)
}
