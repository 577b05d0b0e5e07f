package shared

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ObjectStorage stores uploaded files and rendered documents
type ObjectStorage interface {
	// Put writes the object and returns its public URL
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// PresignGet returns a time-limited download URL
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// BusinessMetrics records marketplace activity for dashboards
type BusinessMetrics interface {
	OrderSetPlaced(ctx context.Context, currency string, total decimal.Decimal, elapsed time.Duration)
	CommissionCharged(ctx context.Context, currency string, amount decimal.Decimal)
	PayoutProcessed(ctx context.Context, status, currency string, amount decimal.Decimal)
	PayoutReversed(ctx context.Context, currency string, amount decimal.Decimal)
	ReturnRequestTransitioned(ctx context.Context, status string)
	SellerRegistered(ctx context.Context, status string)
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) OrderSetPlaced(context.Context, string, decimal.Decimal, time.Duration) {}
func (NoopMetrics) CommissionCharged(context.Context, string, decimal.Decimal)             {}
func (NoopMetrics) PayoutProcessed(context.Context, string, string, decimal.Decimal)       {}
func (NoopMetrics) PayoutReversed(context.Context, string, decimal.Decimal)                {}
func (NoopMetrics) ReturnRequestTransitioned(context.Context, string)                      {}
func (NoopMetrics) SellerRegistered(context.Context, string)                               {}

// MetricsOrNoop returns m, or NoopMetrics when m is nil
func MetricsOrNoop(m BusinessMetrics) BusinessMetrics {
	if m == nil {
		return NoopMetrics{}
	}
	return m
}
