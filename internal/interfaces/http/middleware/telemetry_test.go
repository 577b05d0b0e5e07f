package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marketplace/backend/internal/infrastructure/auth"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	svc := newTestJWTService()
	customer := issue(t, svc, auth.Subject{ActorType: "customer", ActorID: uuid.New()})

	r := gin.New()
	r.Use(HTTPMetrics(provider.Meter("test")))
	r.GET("/store/products/:id", ok)
	r.GET("/store/wishlist", Authenticate(AuthConfig{JWTService: svc}), ok)

	serve(r, http.MethodGet, "/store/products/"+uuid.NewString(), "")
	serve(r, http.MethodGet, "/store/products/"+uuid.NewString(), "")
	serve(r, http.MethodGet, "/store/wishlist", customer.AccessToken)
	serve(r, http.MethodGet, "/nowhere", "")

	metrics := collect(t, reader)
	requests, found := metrics["http.server.requests"]
	require.True(t, found)
	sum, isSum := requests.Data.(metricdata.Sum[int64])
	require.True(t, isSum)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(attrRoute)
		actor, _ := dp.Attributes.Value(attrActor)
		counts[route.AsString()+"|"+actor.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{
		"/store/products/:id|":     2,
		"/store/wishlist|customer": 1,
		"unmatched|":               1,
	}, counts)

	assert.Contains(t, metrics, "http.server.request.duration")
	assert.Contains(t, metrics, "http.server.response.body.size")
	active, isActive := metrics["http.server.active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, isActive)
	for _, dp := range active.DataPoints {
		assert.Zero(t, dp.Value)
	}
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	r := gin.New()
	r.Use(HTTPMetrics(nil))
	r.GET("/", ok)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "").Code)
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := newTestJWTService()
	subject := sellerSubject()
	pair := issue(t, svc, subject)

	r := gin.New()
	r.Use(RequestID(), otelgin.Middleware("marketplace", otelgin.WithTracerProvider(provider)), SpanErrorMarker())
	r.GET("/vendor/orders", Authenticate(AuthConfig{JWTService: svc}), SpanAttributes(), ok)
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/vendor/orders", pair.AccessToken)
	serve(r, http.MethodGet, "/boom", "")
	serve(r, http.MethodGet, "/missing", "")

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "seller", attrs["actor.type"].AsString())
	assert.Equal(t, subject.ActorID.String(), attrs["actor.id"].AsString())
	assert.Equal(t, subject.SellerID.String(), attrs["seller.id"].AsString())
	assert.NotEmpty(t, attrs["request_id"].AsString())

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.NotEqual(t, codes.Error, spans[2].Status().Code, "client errors keep the span healthy")
}

func TestProfiling(t *testing.T) {
	assert.Equal(t, "vendor", surfaceOf("/vendor/orders/:id"))
	assert.Equal(t, "health", surfaceOf("/health"))
	assert.Equal(t, "", surfaceOf("/"))

	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.Use(Profiling(enabled))
		r.GET("/store/products", ok)
		r.GET("/health", ok)
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/store/products", "").Code)
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	}
}
