package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/memberbase/member-registry/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type AppMetrics struct {
	memberOpCounter     metric.Int64Counter
	memberOpDuration    metric.Float64Histogram
	verificationCounter metric.Int64Counter
	authAttemptCounter  metric.Int64Counter
	sessionEventCounter metric.Int64Counter
	repositoryOpCounter metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "member.operation.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("member-registry")
	m := &AppMetrics{}
	if m.memberOpCounter, err = meter.Int64Counter("member.operations"); err != nil {
		return nil, err
	}
	if m.memberOpDuration, err = meter.Float64Histogram("member.operation.duration"); err != nil {
		return nil, err
	}
	if m.verificationCounter, err = meter.Int64Counter("verification.outcomes"); err != nil {
		return nil, err
	}
	if m.authAttemptCounter, err = meter.Int64Counter("auth.login.attempts"); err != nil {
		return nil, err
	}
	if m.sessionEventCounter, err = meter.Int64Counter("session.store.events"); err != nil {
		return nil, err
	}
	if m.repositoryOpCounter, err = meter.Int64Counter("repository.operations"); err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// RecordMemberOperation tracks one storage-facing member operation with its
// outcome and duration.
func RecordMemberOperation(ctx context.Context, op, outcome string, d time.Duration) {
	m := current()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	m.memberOpCounter.Add(ctx, 1, attrs)
	m.memberOpDuration.Record(ctx, d.Seconds(), attrs)
}

func RecordVerificationOutcome(ctx context.Context, verified bool) {
	m := current()
	if m == nil {
		return
	}
	m.verificationCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("verified", verified)))
}

func RecordAuthAttempt(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.authAttemptCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordSessionEvent(ctx context.Context, store, event string) {
	m := current()
	if m == nil {
		return
	}
	m.sessionEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store", store),
		attribute.String("event", event),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, op, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.repositoryOpCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
