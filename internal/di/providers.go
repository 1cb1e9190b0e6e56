package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/app"
	"github.com/memberbase/member-registry/internal/config"
	"github.com/memberbase/member-registry/internal/database"
	"github.com/memberbase/member-registry/internal/health"
	"github.com/memberbase/member-registry/internal/http/handler"
	"github.com/memberbase/member-registry/internal/http/router"
	"github.com/memberbase/member-registry/internal/observability"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/service"
	"github.com/memberbase/member-registry/internal/session"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var InfraSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideSessionStore,
	provideSessionManager,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	provideMemberRepository,
	provideUserRepository,
)

var ServiceSet = wire.NewSet(
	provideVerifier,
	service.NewMemberService,
	service.NewAuthService,
	wire.Bind(new(service.MemberServiceInterface), new(*service.MemberService)),
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
)

var HTTPSet = wire.NewSet(
	handler.NewMemberHandler,
	handler.NewAuthHandler,
	handler.NewVerifyHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

// provideDB opens and migrates postgres, or returns nil when the in-memory
// backend is selected.
func provideDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.StorageBackend != config.StorageBackendPostgres {
		return nil, nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if cfg.SessionStore != config.SessionStoreRedis {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideSessionStore(cfg *config.Config, client redis.UniversalClient) session.Store {
	if cfg.SessionStore == config.SessionStoreRedis {
		return session.NewRedisStore(client, "session")
	}
	return session.NewMemoryStore()
}

func provideSessionManager(cfg *config.Config, store session.Store) *session.Manager {
	return session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideMemberRepository(cfg *config.Config, db *gorm.DB) repository.MemberRepository {
	if cfg.StorageBackend == config.StorageBackendPostgres {
		return repository.NewGormMemberRepository(db)
	}
	return repository.NewMemoryMemberRepository()
}

func provideUserRepository(cfg *config.Config, db *gorm.DB) repository.UserRepository {
	if cfg.StorageBackend == config.StorageBackendPostgres {
		return repository.NewGormUserRepository(db)
	}
	return repository.NewMemoryUserRepository()
}

func provideVerifier(cfg *config.Config) service.SSNVerifier {
	return service.NewMockSSNVerifier(cfg.VerifyDelay, cfg.VerifySuccessRate)
}

func provideReadinessProbeRunner(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	return health.NewProbeRunner(2*time.Second, 0,
		health.NewDBChecker(db),
		health.NewRedisChecker(client),
	)
}

func provideRouterDependencies(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	verifyHandler *handler.VerifyHandler,
	sessions *session.Manager,
	readiness *health.ProbeRunner,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		MemberHandler:    memberHandler,
		VerifyHandler:    verifyHandler,
		Sessions:         sessions,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
