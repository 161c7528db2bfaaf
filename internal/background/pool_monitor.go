package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolProbe is the part of database.DB the monitor needs.
type PoolProbe interface {
	HealthCheck(ctx context.Context) error
	Stats() *pgxpool.Stat
}

// PoolMonitor periodically pings the database and logs connection pool usage
type PoolMonitor struct {
	probe    PoolProbe
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}

	failures int
}

// NewPoolMonitor creates a new pool monitor
func NewPoolMonitor(probe PoolProbe, logger *slog.Logger, interval time.Duration) *PoolMonitor {
	return &PoolMonitor{
		probe:    probe,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the monitor until Stop is called or ctx is done.
func (pm *PoolMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	pm.runCheck(ctx)

	for {
		select {
		case <-ticker.C:
			pm.runCheck(ctx)
		case <-pm.stopCh:
			pm.logger.Info("pool monitor stopped")
			return
		case <-ctx.Done():
			pm.logger.Info("pool monitor context cancelled")
			return
		}
	}
}

func (pm *PoolMonitor) runCheck(ctx context.Context) {
	if err := pm.probe.HealthCheck(ctx); err != nil {
		pm.failures++
		pm.logger.Error("database unreachable",
			slog.Any("error", err),
			slog.Int("consecutive_failures", pm.failures))
		return
	}

	if pm.failures > 0 {
		pm.logger.Info("database reachable again", slog.Int("failed_checks", pm.failures))
		pm.failures = 0
	}

	stat := pm.probe.Stats()
	if stat == nil {
		return
	}

	pm.logger.Debug("connection pool stats",
		slog.Int("total_conns", int(stat.TotalConns())),
		slog.Int("idle_conns", int(stat.IdleConns())),
		slog.Int("acquired_conns", int(stat.AcquiredConns())),
		slog.Int("max_conns", int(stat.MaxConns())),
		slog.Duration("acquire_duration", stat.AcquireDuration()))
}

// Stop signals the monitor to stop
func (pm *PoolMonitor) Stop() {
	close(pm.stopCh)
}
