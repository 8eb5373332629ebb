package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vendra/licensing-api/internal/service"
)

// MetricsWorker keeps the dashboard metrics snapshot warm by recomputing it
// periodically. It only reads contract data; billing statuses are never
// changed automatically.
type MetricsWorker struct {
	dashboardService *service.DashboardService
	interval         time.Duration
}

// NewMetricsWorker constructs a MetricsWorker.
func NewMetricsWorker(dashboardService *service.DashboardService, interval time.Duration) *MetricsWorker {
	return &MetricsWorker{
		dashboardService: dashboardService,
		interval:         interval,
	}
}

// Start begins the periodic refresh loop until context is canceled.
func (w *MetricsWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting metrics worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Metrics worker stopped")
			return
		}
	}
}

func (w *MetricsWorker) run(ctx context.Context) {
	stats, err := w.dashboardService.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to refresh dashboard metrics")
		return
	}
	log.Debug().
		Int("total_contracts", stats.TotalContracts).
		Str("total_revenue", stats.TotalRevenue.String()).
		Msg("Dashboard metrics refreshed")
}
