package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3

var retryDelay = 30 * time.Second

// CacheFlusher removes cached entries and reports how many were dropped.
type CacheFlusher func(ctx context.Context) (int, error)

// runFlushWithRetries runs flush up to maxRetries times, waiting retryDelay between attempts.
func runFlushWithRetries(ctx context.Context, flush CacheFlusher, logger *zap.Logger) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		deleted, err := flush(ctx)
		if err == nil {
			logger.Info("scheduled cache flush completed",
				zap.Int("attempt", attempt),
				zap.Int("keys", deleted),
			)
			return nil
		}
		lastErr = err
		logger.Warn("scheduled cache flush failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("cache flush failed after %d attempts: %w", maxRetries, lastErr)
}

// StartScheduledCacheFlush registers flush on the cron spec (standard 5-field syntax,
// or descriptors such as "@every 10m") and starts the scheduler. Callers stop it with Stop().
func StartScheduledCacheFlush(spec string, flush CacheFlusher, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		logger.Info("running scheduled cache flush...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := runFlushWithRetries(ctx, flush, logger); err != nil {
			logger.Error("scheduled cache flush gave up, please check the cache backend", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache flush schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
