// Package telemetry wires OpenTelemetry traces, metrics and logs plus
// continuous profiling for the marketplace backend.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceVersion is reported on every exported resource
var ServiceVersion = "1.0.0"

// Telemetry groups the providers created from TelemetryConfig
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Metrics  *BusinessMetrics

	config config.TelemetryConfig
	logger *zap.Logger
}

// Setup creates every provider. Disabled parts degrade to no-ops so callers
// never need to nil-check.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Telemetry{config: cfg, logger: logger}

	var err error
	if t.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.Enabled && cfg.ProfilingEnabled,
		ServerAddress:   cfg.ProfilingEndpoint,
		ApplicationName: cfg.ServiceName,
	}, logger); err != nil {
		return nil, err
	}

	if t.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		return nil, t.abort(ctx, err)
	}
	if t.Profiler.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}

	if t.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		return nil, t.abort(ctx, err)
	}
	if t.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		return nil, t.abort(ctx, err)
	}
	if t.Metrics, err = NewBusinessMetrics(t.Meter.Meter(instrumentationName)); err != nil {
		return nil, t.abort(ctx, err)
	}
	return t, nil
}

// ZapCore returns the logs bridge core for logger.New, or nil when OTLP
// logs are disabled.
func (t *Telemetry) ZapCore(level zapcore.Level) zapcore.Core {
	if t == nil || t.Logs == nil {
		return nil
	}
	return t.Logs.ZapCore(t.config.ServiceName, level)
}

// DBTracing returns the GORM tracing plugin configured from TelemetryConfig
func (t *Telemetry) DBTracing() *DBTracingPlugin {
	return NewDBTracingPlugin(DBTracingConfig{
		Enabled:         t.config.Enabled && t.config.DBTraceEnabled,
		SlowQueryThresh: defaultSlowQueryThreshold,
	}, t.logger)
}

// Shutdown flushes and stops every provider in reverse creation order
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	return errors.Join(errs...)
}

func (t *Telemetry) abort(ctx context.Context, cause error) error {
	if err := t.Shutdown(ctx); err != nil {
		t.logger.Warn("Partial telemetry shutdown failed", zap.Error(err))
	}
	return cause
}

const instrumentationName = "github.com/marketplace/backend"

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
