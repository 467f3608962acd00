package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
)

func StartPoolMetrics(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	startStatsLoop(ctx, interval, func() {
		stats := pool.Stat()
		metrics.DBPoolAcquiredConnections.Set(float64(stats.AcquiredConns()))
		metrics.DBPoolIdleConnections.Set(float64(stats.IdleConns()))
		metrics.DBPoolMaxConnections.Set(float64(stats.MaxConns()))
		metrics.DBPoolTotalConnections.Set(float64(stats.TotalConns()))
	})
}

// StartSQLMetrics reports database/sql pool stats on the same gauges as the
// pgx pool so dashboards work for either driver.
func StartSQLMetrics(ctx context.Context, sqlDB *sql.DB, interval time.Duration) {
	startStatsLoop(ctx, interval, func() {
		stats := sqlDB.Stats()
		metrics.DBPoolAcquiredConnections.Set(float64(stats.InUse))
		metrics.DBPoolIdleConnections.Set(float64(stats.Idle))
		metrics.DBPoolMaxConnections.Set(float64(stats.MaxOpenConnections))
		metrics.DBPoolTotalConnections.Set(float64(stats.OpenConnections))
	})
}

func startStatsLoop(ctx context.Context, interval time.Duration, report func()) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report()
			}
		}
	}()
}
