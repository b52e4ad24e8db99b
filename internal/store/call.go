package store

import (
	"context"
	"time"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/metrics"
)

// Observe runs one store round trip, records its latency and wraps a
// failure as *apperr.StorageError. It never retries.
func Observe(ctx context.Context, collection, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.StoreCallDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
	if err == nil {
		return nil
	}

	metrics.StoreCallErrors.WithLabelValues(collection, op).Inc()
	return &apperr.StorageError{Collection: collection, Op: op, Err: err}
}
