package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweep periodically deletes expired session records until ctx is
// cancelled. Run it in its own goroutine; it never interacts with
// in-flight requests beyond removing records they could no longer use.
func Sweep(ctx context.Context, store Store, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("swept expired sessions", zap.Int64("count", n))
			}
		}
	}
}
