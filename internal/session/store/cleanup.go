package store

import (
	"context"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartCleanup blocks, calling DeleteExpired on every tick until ctx is done.
func StartCleanup(ctx context.Context, deleter ExpiredDeleter, interval time.Duration, log *logger.Logger, name string) {
	if interval <= 0 {
		interval = constants.SessionCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := deleter.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("%s cleanup failed: %v", name, err)
				continue
			}
			if deleted > 0 {
				metrics.SessionsExpiredCleanup.Add(float64(deleted))
				log.Infof("%s cleanup: deleted %d expired sessions", name, deleted)
			}
		}
	}
}
