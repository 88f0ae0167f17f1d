package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/app"
	"github.com/sandeepkv93/master-items-admin/internal/config"
	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/health"
	"github.com/sandeepkv93/master-items-admin/internal/http/handler"
	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/http/router"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewMasterItemRepository,
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewPermissionRepository,
	repository.NewUserPreferenceRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	provideCookieManager,
	wire.Bind(new(middleware.TokenParser), new(*security.JWTManager)),
	wire.Bind(new(service.TokenIssuer), new(*security.JWTManager)),
)

var ServiceSet = wire.NewSet(
	service.NewRBACService,
	service.NewMasterItemService,
	service.NewUserService,
	service.NewRoleService,
	service.NewPermissionService,
	service.NewUserPreferenceService,
	provideAuthService,
	providePermissionResolver,
	wire.Bind(new(service.RBACAuthorizer), new(*service.RBACService)),
	wire.Bind(new(service.MasterItemService), new(*service.MasterItemServiceImpl)),
	wire.Bind(new(service.UserService), new(*service.UserServiceImpl)),
	wire.Bind(new(service.RoleService), new(*service.RoleServiceImpl)),
	wire.Bind(new(service.PermissionService), new(*service.PermissionServiceImpl)),
	wire.Bind(new(service.UserPreferenceService), new(*service.UserPreferenceServiceImpl)),
	wire.Bind(new(service.AuthService), new(*service.AuthServiceImpl)),
	wire.Bind(new(service.PermissionResolver), new(*service.DBPermissionResolver)),
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	handler.NewUserHandler,
	handler.NewRoleHandler,
	handler.NewPermissionHandler,
	handler.NewMasterItemHandler,
	handler.NewUserPreferenceHandler,
	provideGlobalRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

// provideRuntimeDB brings the schema and the default RBAC catalogue up to
// date before the server accepts traffic.
func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if _, err := database.Seed(db, database.SeedOptions{
		AdminEmail:    cfg.BootstrapAdminEmail,
		AdminPassword: cfg.BootstrapAdminPassword,
	}); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RateLimitRedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure)
}

func provideAuthService(cfg *config.Config, users repository.UserRepository, perms repository.PermissionRepository, jwt service.TokenIssuer) *service.AuthServiceImpl {
	return service.NewAuthService(users, perms, jwt, cfg.JWTAccessTTL)
}

func providePermissionResolver(perms repository.PermissionRepository) *service.DBPermissionResolver {
	return service.NewDBPermissionResolver(perms)
}

func provideAuthHandler(authSvc service.AuthService, cookieMgr *security.CookieManager, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc, cookieMgr, cfg.JWTAccessTTL)
}

func apiFailureMode(cfg *config.Config) middleware.FailureMode {
	if cfg.RateLimitFailOpen {
		return middleware.FailOpen
	}
	return middleware.FailClosed
}

// provideGlobalRateLimiter counts authenticated callers per user and
// anonymous traffic per IP.
func provideGlobalRateLimiter(cfg *config.Config, redisClient redis.UniversalClient, tokens middleware.TokenParser) router.GlobalRateLimiterFunc {
	keyFunc := middleware.SubjectOrIPKeyFunc(tokens)
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
		return middleware.NewDistributedRateLimiterWithKey(
			redisLimiter,
			cfg.APIRateLimitPerMin,
			time.Minute,
			apiFailureMode(cfg),
			"api",
			keyFunc,
		).Middleware()
	}
	return middleware.NewDistributedRateLimiterWithKey(
		middleware.NewLocalFixedWindowLimiter(),
		cfg.APIRateLimitPerMin,
		time.Minute,
		middleware.FailClosed,
		"api",
		keyFunc,
	).Middleware()
}

// provideAuthRateLimiter always fails closed: a limiter outage must not
// open the login endpoint to brute force.
func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":auth")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.AuthRateLimitPerMin,
			time.Minute,
			middleware.FailClosed,
			"auth",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute).Middleware()
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	permissionHandler *handler.PermissionHandler,
	masterItemHandler *handler.MasterItemHandler,
	preferenceHandler *handler.UserPreferenceHandler,
	tokens middleware.TokenParser,
	rbac service.RBACAuthorizer,
	resolver service.PermissionResolver,
	globalRateLimiter router.GlobalRateLimiterFunc,
	authRateLimiter router.AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:            authHandler,
		UserHandler:            userHandler,
		RoleHandler:            roleHandler,
		PermissionHandler:      permissionHandler,
		MasterItemHandler:      masterItemHandler,
		UserPreferenceHandler:  preferenceHandler,
		TokenParser:            tokens,
		RBACService:            rbac,
		PermissionResolver:     resolver,
		CORSOrigins:            cfg.CORSAllowedOrigins,
		AuthRateLimitRPM:       cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:        cfg.APIRateLimitPerMin,
		GlobalRateLimiter:      globalRateLimiter,
		AuthRateLimiter:        authRateLimiter,
		Readiness:              readiness,
		EnableOTelHTTP:         cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
		UserPreferencesEnabled: cfg.UserPreferencesEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db), health.NewRBACSeedChecker(db)}
	if cfg.RateLimitRedisEnabled {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ReadinessStartupGrace, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, readiness)
}
