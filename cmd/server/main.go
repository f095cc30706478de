package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/painless/shop/docs"
	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/infrastructure/cache"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/event"
	"github.com/painless/shop/internal/infrastructure/i18n"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/infrastructure/persistence"
	"github.com/painless/shop/internal/infrastructure/telemetry"
	"github.com/painless/shop/internal/interfaces/http/handler"
	"github.com/painless/shop/internal/interfaces/http/middleware"
	"github.com/painless/shop/internal/interfaces/http/router"
)

//	@title			Painless Shop API
//	@version		1.0
//	@description	Accounts, authentication and purchase insights for the Painless shop.

//	@contact.name	API Support

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops when telemetry is disabled.
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Painless Shop",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiler, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, logProvider, profiler)

	var metrics *telemetry.AccountMetrics
	if meterProvider.IsEnabled() {
		metrics, err = telemetry.NewAccountMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to create account metrics", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracing(cfg.Telemetry, cfg.Database.Driver, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	// Postgres schemas come from cmd/migrate; sqlite is a development database.
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	counters := cache.NewCounterStore(redisClient, log)
	defer func() {
		_ = counters.Close()
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	currency, err := valueobject.ParseCurrency(cfg.Money.DefaultCurrency)
	if err != nil {
		log.Fatal("Invalid default currency", zap.Error(err))
	}
	insightRepo := persistence.NewGormInsightRepository(db.DB, currency)

	eventBus := event.NewInMemoryEventBus(log)
	profileSync := appaccount.NewProfileSync(profileRepo, log)
	eventBus.Subscribe(profileSync)
	log.Info("Event handlers registered", zap.Strings("profile_sync_events", profileSync.EventTypes()))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	guard := appaccount.NewCounterLoginGuard(counters, cfg.Security.LoginAttemptThreshold, cfg.Security.AttemptWindow)
	authService := appaccount.NewAuthService(userRepo, guard, jwtService, blacklist, metrics,
		appaccount.NewAuthServiceConfig(cfg.Security, cfg.JWT), log)
	userManager := appaccount.NewUserManager(userRepo, eventBus, log)
	registrationService := appaccount.NewRegistrationService(userManager, userRepo,
		account.NewPasswordPolicy(cfg.Security.PasswordMinLength), metrics, log)
	userService := appaccount.NewUserService(userRepo, profileRepo, blacklist, eventBus,
		appaccount.UserServiceConfig{Debug: cfg.App.Debug, TokenTTL: cfg.JWT.RefreshTokenExpiration}, log)
	insightService := appaccount.NewInsightService(insightRepo)

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engineCfg := router.EngineConfig{
		Config:     cfg,
		Logger:     log,
		Translator: i18n.New(cfg.I18n),
		JWT:        jwtService,
		Revocation: authService,
		Account: router.AccountHandlers{
			Auth:     handler.NewAuthHandler(authService, registrationService),
			Users:    handler.NewUserHandler(userService),
			Insights: handler.NewInsightHandler(insightService),
		},
		System: handler.NewSystemHandler(buildVersion(), checks),
	}
	if meterProvider.IsEnabled() {
		engineCfg.Meter = meterProvider.Meter(cfg.Telemetry.ServiceName)
	}
	if cfg.HTTP.ThrottleEnabled {
		throttle, err := middleware.NewThrottleConfig(cfg.HTTP, counters, metrics, log)
		if err != nil {
			log.Fatal("Invalid throttle rates", zap.Error(err))
		}
		engineCfg.Throttle = &throttle
	}

	engine, err := router.NewEngine(engineCfg)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes exporters in reverse start order
func shutdownTelemetry(log *zap.Logger, tp, mp shutdowner, lp shutdowner, profiler *telemetry.Profiler) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	for name, p := range map[string]shutdowner{"tracer": tp, "meter": mp} {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.String("provider", name), zap.Error(err))
		}
	}
	// The log exporter goes last so the errors above are still shipped.
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
