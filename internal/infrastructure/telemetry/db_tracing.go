package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/painless/shop/internal/infrastructure/config"
)

type contextKey string

const queryStartKey contextKey = "otel_query_start"

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

// DBTracing registers otelgorm and a slow query annotator on a gorm handle.
type DBTracing struct {
	enabled       bool
	logFullSQL    bool
	slowThreshold time.Duration
	dbSystem      string
	logger        *zap.Logger
	now           func() time.Time
}

// NewDBTracing builds the plugin from telemetry config. driver is the gorm dialect name.
func NewDBTracing(cfg config.TelemetryConfig, driver string, logger *zap.Logger) *DBTracing {
	system := "postgresql"
	if driver == "sqlite" {
		system = "sqlite"
	}
	return &DBTracing{
		enabled:       cfg.Enabled && cfg.DBTraceEnabled,
		logFullSQL:    cfg.DBLogFullSQL,
		slowThreshold: cfg.DBSlowQueryThresh,
		dbSystem:      system,
		logger:        logger,
		now:           time.Now,
	}
}

// Register installs the callbacks. It is a no-op when db tracing is off.
func (p *DBTracing) Register(db *gorm.DB) error {
	if !p.enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// After-hooks run ahead of otelgorm's so the query span is still recording.
	cb := db.Callback()
	hooks := []struct {
		name     string
		callback gormRegister
		fn       func(*gorm.DB)
	}{
		{"before_create", cb.Create().Before("gorm:create"), p.before},
		{"before_query", cb.Query().Before("gorm:query"), p.before},
		{"before_update", cb.Update().Before("gorm:update"), p.before},
		{"before_delete", cb.Delete().Before("gorm:delete"), p.before},
		{"before_row", cb.Row().Before("gorm:row"), p.before},
		{"before_raw", cb.Raw().Before("gorm:raw"), p.before},
		{"after_create", cb.Create().After("gorm:create").Before("otel:after:create"), p.after},
		{"after_query", cb.Query().After("gorm:query").Before("otel:after:select"), p.after},
		{"after_update", cb.Update().After("gorm:update").Before("otel:after:update"), p.after},
		{"after_delete", cb.Delete().After("gorm:delete").Before("otel:after:delete"), p.after},
		{"after_row", cb.Row().After("gorm:row").Before("otel:after:row"), p.after},
		{"after_raw", cb.Raw().After("gorm:raw").Before("otel:after:raw"), p.after},
	}
	for _, h := range hooks {
		if err := h.callback.Register("shop_timing:"+h.name, h.fn); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowThreshold),
		zap.String("db_system", p.dbSystem),
	)
	return nil
}

func (p *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, p.now())
	}
}

func (p *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := p.now().Sub(start); elapsed > p.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.slowThreshold.Milliseconds()),
		))
	}
}
