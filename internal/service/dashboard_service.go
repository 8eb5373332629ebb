package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vendra/licensing-api/internal/models"
)

// StatsStore computes the aggregate contract metrics.
type StatsStore interface {
	GetStats() (*models.DashboardStats, error)
}

// StatsCache stores and serves a cached metrics snapshot.
type StatsCache interface {
	Get(ctx context.Context) (*models.DashboardStats, error)
	Set(ctx context.Context, stats *models.DashboardStats) error
	Invalidate(ctx context.Context) error
}

// DashboardService serves the aggregate metrics snapshot with a cache-aside
// strategy: cached snapshot when fresh, recompute from the store otherwise.
type DashboardService struct {
	store StatsStore
	cache StatsCache
}

// NewDashboardService constructs a DashboardService. cache may be nil, in
// which case every read hits the store.
func NewDashboardService(store StatsStore, cache StatsCache) *DashboardService {
	return &DashboardService{store: store, cache: cache}
}

// GetStats returns the dashboard metrics snapshot.
func (s *DashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("metrics cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the snapshot from the store and repopulates the cache.
func (s *DashboardService) Refresh(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.store.GetStats()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			log.Warn().Err(err).Msg("metrics cache write failed")
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot after contract mutations so the next
// dashboard read reflects them.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("metrics cache invalidation failed")
	}
}
