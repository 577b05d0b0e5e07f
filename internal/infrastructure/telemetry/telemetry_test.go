package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetup_Disabled(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NotNil(t, tel.Metrics)
	assert.Nil(t, tel.ZapCore(zapcore.InfoLevel))
	assert.NotNil(t, tel.Tracer.Tracer("test"))

	db := openSQLite(t)
	require.NoError(t, tel.DBTracing().Register(db))

	require.NoError(t, tel.Shutdown(context.Background()))
	require.NoError(t, tel.Profiler.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "svc"}, zap.NewNop())
	require.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	require.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(newLevelFilterCore(inner, zapcore.WarnLevel))

	log.Info("dropped")
	log.With(zap.String("k", "v")).Warn("kept")
	log.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "v", logs.All()[0].ContextMap()["k"])
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.OrderSetPlaced(ctx, "eur", decimal.RequireFromString("120.50"), 30*time.Millisecond)
	m.OrderSetPlaced(ctx, "eur", decimal.RequireFromString("9.50"), 10*time.Millisecond)
	m.CommissionCharged(ctx, "eur", decimal.RequireFromString("13"))
	m.PayoutProcessed(ctx, "paid", "eur", decimal.RequireFromString("117"))
	m.PayoutProcessed(ctx, "failed", "eur", decimal.RequireFromString("50"))
	m.PayoutReversed(ctx, "eur", decimal.RequireFromString("20"))
	m.ReturnRequestTransitioned(ctx, "refunded")
	m.SellerRegistered(ctx, "pending_approval")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	got := collect(rm)

	assert.Equal(t, int64(2), intSum(t, got["marketplace.orders.placed"]))
	assert.InDelta(t, 130.0, floatSum(t, got["marketplace.orders.amount"]), 0.0001)
	assert.InDelta(t, 13.0, floatSum(t, got["marketplace.commission.amount"]), 0.0001)
	assert.InDelta(t, 117.0, floatSum(t, got["marketplace.payouts.amount"]), 0.0001)
	assert.InDelta(t, 20.0, floatSum(t, got["marketplace.payouts.reversed"]), 0.0001)
	assert.Equal(t, int64(1), intSum(t, got["marketplace.return_requests"]))
	assert.Equal(t, int64(1), intSum(t, got["marketplace.sellers.registered"]))

	payouts, ok := got["marketplace.payouts"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	statuses := map[string]int64{}
	for _, dp := range payouts.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("status"))
		statuses[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"paid": 1, "failed": 1}, statuses)

	hist, ok := got["marketplace.checkout.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestBusinessMetrics_NilIsNoop(t *testing.T) {
	var m *BusinessMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.OrderSetPlaced(ctx, "eur", decimal.NewFromInt(1), time.Second)
		m.CommissionCharged(ctx, "eur", decimal.NewFromInt(1))
		m.PayoutProcessed(ctx, "paid", "eur", decimal.NewFromInt(1))
		m.PayoutReversed(ctx, "eur", decimal.NewFromInt(1))
		m.ReturnRequestTransitioned(ctx, "requested")
		m.SellerRegistered(ctx, "active")
	})
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db := openSQLite(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, TracerProvider: tp}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	type widget struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&widget{}))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	var found []widget
	require.NoError(t, db.WithContext(ctx).Find(&found).Error)
	span.End()

	assert.Len(t, found, 1)
	var children int
	for _, s := range recorder.Ended() {
		if s.Parent().SpanID() == span.SpanContext().SpanID() {
			children++
		}
	}
	assert.GreaterOrEqual(t, children, 2)
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func collect(rm metricdata.ResourceMetrics) map[string]metricdata.Metrics {
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func intSum(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func floatSum(t *testing.T, m metricdata.Metrics) float64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[float64])
	require.True(t, ok, "metric %s is not a float64 sum", m.Name)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}
