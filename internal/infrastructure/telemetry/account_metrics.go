package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Login results recorded by AccountMetrics.
const (
	LoginSucceeded          = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginInactive           = "inactive"
	LoginBlocked            = "blocked"
)

var (
	attrResult = attribute.Key("result")
	attrScope  = attribute.Key("scope")
)

// AccountMetrics counts account activity.
type AccountMetrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	throttled     metric.Int64Counter
	ipBlocks      metric.Int64Counter
}

// NewAccountMetrics registers the account counters on meter.
func NewAccountMetrics(meter metric.Meter) (*AccountMetrics, error) {
	m := &AccountMetrics{}
	var err error

	if m.registrations, err = meter.Int64Counter("shop.account.registrations",
		metric.WithDescription("Completed registrations"),
		metric.WithUnit("{registration}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create registrations counter: %w", err)
	}
	if m.logins, err = meter.Int64Counter("shop.account.logins",
		metric.WithDescription("Token obtain attempts by result"),
		metric.WithUnit("{attempt}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}
	if m.throttled, err = meter.Int64Counter("shop.http.throttled_requests",
		metric.WithDescription("Requests rejected by the throttle"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create throttled counter: %w", err)
	}
	if m.ipBlocks, err = meter.Int64Counter("shop.account.ip_blocks",
		metric.WithDescription("Client IPs blocked after repeated login failures"),
		metric.WithUnit("{block}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create ip blocks counter: %w", err)
	}
	return m, nil
}

// RecordRegistration counts one new account.
func (m *AccountMetrics) RecordRegistration(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

// RecordLogin counts one login attempt with the given result.
func (m *AccountMetrics) RecordLogin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attrResult.String(result)))
}

// RecordIPBlock counts one blocked IP.
func (m *AccountMetrics) RecordIPBlock(ctx context.Context) {
	if m == nil {
		return
	}
	m.ipBlocks.Add(ctx, 1)
}

// RecordThrottled counts one throttled request. scope is anon or user.
func (m *AccountMetrics) RecordThrottled(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.throttled.Add(ctx, 1, metric.WithAttributes(attrScope.String(scope)))
}
