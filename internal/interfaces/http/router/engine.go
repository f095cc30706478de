package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/i18n"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/interfaces/http/handler"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

// EngineConfig carries everything the HTTP engine is assembled from
type EngineConfig struct {
	Config     *config.Config
	Logger     *zap.Logger
	Translator *i18n.Translator
	JWT        *auth.JWTService
	Revocation middleware.RevocationChecker
	// Throttle is nil when throttling is disabled
	Throttle   *middleware.ThrottleConfig
	// Meter is nil when metrics are disabled
	Meter      metric.Meter
	Account    AccountHandlers
	System     *handler.SystemHandler
}

// NewEngine builds the gin engine with the global middleware chain and every route.
//
// Middleware order:
//  1. RequestID, ClientIP - correlation data used by everything below
//  2. Logger, Recovery
//  3. Tracing, Language
//  4. CORS, Security headers, BodyLimit
//  5. HTTP metrics
//  6. JWT (optional), span attributes, profiling labels
//  7. Throttle - keyed by user when JWT identified one
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	app := cfg.Config
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(app.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.ClientIP(app.HTTP.TrustedProxies...))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: app.Telemetry.ServiceName,
		Enabled:     app.Telemetry.Enabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.Language(cfg.Translator))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = app.HTTP.CORSAllowOrigins
	if len(app.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = app.HTTP.CORSAllowMethods
	}
	if len(app.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = app.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = app.App.Env == "production"
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.BodyLimit(app.HTTP.MaxBodySize))

	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create http metrics: %w", err)
		}
		engine.Use(metrics)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))

	if cfg.Account.Users != nil {
		cfg.Account.Users.SetPageLimits(app.Pagination.DefaultLimit, app.Pagination.MaxLimit)
	}
	if cfg.Account.Insights != nil {
		cfg.Account.Insights.SetPageLimits(app.Pagination.DefaultLimit, app.Pagination.MaxLimit)
	}
	r.Register(NewAccountRoutes(cfg.Account))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWT,
		Revocation: cfg.Revocation,
		SkipPaths:  r.PublicPaths(),
		Optional:   true,
		Logger:     log,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	if app.Profiler.Enabled {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	if cfg.Throttle != nil {
		engine.Use(middleware.Throttle(*cfg.Throttle))
		log.Info("Throttling enabled",
			zap.String("anon_rate", app.HTTP.AnonRate),
			zap.String("user_rate", app.HTTP.UserRate),
		)
	}

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
	}
	engine.GET("/swagger/*any", middleware.SwaggerProtection(app.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Setup()

	return engine, nil
}
