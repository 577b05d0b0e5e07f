package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

// Profiling tags CPU samples with the matched route so flame graphs can be
// split per endpoint. The surface label is the first path segment
// (admin, vendor, store, auth, hooks).
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || strings.HasPrefix(route, "/health") {
			c.Next()
			return
		}
		labels := []string{"method", c.Request.Method, "route", route}
		if surface := surfaceOf(route); surface != "" {
			labels = append(labels, "surface", surface)
		}
		telemetry.WithLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, labels...)
	}
}

// surfaceOf returns "vendor" for "/vendor/orders/:id"
func surfaceOf(route string) string {
	trimmed := strings.TrimPrefix(route, "/")
	surface, _, _ := strings.Cut(trimmed, "/")
	return surface
}
