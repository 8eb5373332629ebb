package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/licensing-api/internal/models"
)

type fakeStatsStore struct {
	stats *models.DashboardStats
	calls int
}

func (f *fakeStatsStore) GetStats() (*models.DashboardStats, error) {
	f.calls++
	cp := *f.stats
	return &cp, nil
}

type fakeStatsCache struct {
	snapshot    *models.DashboardStats
	sets, drops int
}

func (f *fakeStatsCache) Get(ctx context.Context) (*models.DashboardStats, error) {
	if f.snapshot == nil {
		return nil, nil
	}
	cp := *f.snapshot
	return &cp, nil
}

func (f *fakeStatsCache) Set(ctx context.Context, stats *models.DashboardStats) error {
	cp := *stats
	f.snapshot = &cp
	f.sets++
	return nil
}

func (f *fakeStatsCache) Invalidate(ctx context.Context) error {
	f.snapshot = nil
	f.drops++
	return nil
}

// Fixture: two PAID contracts worth 500+300, one LATE worth 200, one
// PENDING worth 100.
func sampleStats() *models.DashboardStats {
	return &models.DashboardStats{
		TotalContracts: 4,
		PaidCount:      2,
		LateCount:      1,
		PendingCount:   1,
		TotalRevenue:   decimal.RequireFromString("800.00"),
		ActiveRevenue:  decimal.RequireFromString("800.00"),
		OverdueCount:   1,
		OverdueAmount:  decimal.RequireFromString("200.00"),
	}
}

func TestDashboardCacheAside(t *testing.T) {
	ctx := context.Background()
	store := &fakeStatsStore{stats: sampleStats()}
	cache := &fakeStatsCache{}
	svc := NewDashboardService(store, cache)

	// Cold cache: compute and populate.
	got, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, cache.sets)
	assert.True(t, got.TotalRevenue.Equal(decimal.RequireFromString("800.00")))
	assert.Equal(t, 1, got.OverdueCount)
	assert.True(t, got.OverdueAmount.Equal(decimal.RequireFromString("200.00")))

	// Warm cache: served without touching the store.
	_, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	// Invalidation forces the next read back to the store.
	svc.Invalidate(ctx)
	assert.Equal(t, 1, cache.drops)
	_, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestDashboardRefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeStatsStore{stats: sampleStats()}
	cache := &fakeStatsCache{snapshot: &models.DashboardStats{TotalContracts: 99}}
	svc := NewDashboardService(store, cache)

	got, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalContracts)
	assert.Equal(t, 4, cache.snapshot.TotalContracts)
}

// GetStats mirrors the aggregation the contracts table query performs: per
// status counts plus net-amount sums over PAID (total), BILLED/RECEIVED/PAID
// (active) and LATE (overdue).
func (f *fakeContractStore) GetStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	for _, ct := range f.contracts {
		stats.TotalContracts++
		switch ct.BillingStatus {
		case models.BillingStatusPending:
			stats.PendingCount++
		case models.BillingStatusBilled:
			stats.BilledCount++
			stats.ActiveRevenue = stats.ActiveRevenue.Add(ct.NetAmount)
		case models.BillingStatusReceived:
			stats.ReceivedCount++
			stats.ActiveRevenue = stats.ActiveRevenue.Add(ct.NetAmount)
		case models.BillingStatusPaid:
			stats.PaidCount++
			stats.TotalRevenue = stats.TotalRevenue.Add(ct.NetAmount)
			stats.ActiveRevenue = stats.ActiveRevenue.Add(ct.NetAmount)
		case models.BillingStatusLate:
			stats.LateCount++
			stats.OverdueCount++
			stats.OverdueAmount = stats.OverdueAmount.Add(ct.NetAmount)
		case models.BillingStatusCanceled:
			stats.CanceledCount++
		}
	}
	return stats, nil
}

// The aggregates are computed from a seeded contract set whose net amounts
// and statuses go through the regular create and transition paths, not from
// figures handed to the store.
func TestDashboardAggregatesOverSeededContracts(t *testing.T) {
	ctx := context.Background()
	contracts, store := newContractFixture(t)

	create := func(amount string, margin *string) int {
		t.Helper()
		ct, err := contracts.Create(&CreateContractRequest{
			CustomerID: 1, ProductID: 1, ContractTerm: 1,
			StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual",
			Amount: amount, ResellerMargin: margin,
		})
		require.NoError(t, err)
		return ct.ID
	}
	advance := func(id int, path ...models.BillingStatus) {
		t.Helper()
		for _, status := range path {
			_, err := contracts.ChangeStatus(id, status, false)
			require.NoError(t, err)
		}
	}

	// Net 500 from 1000 gross at a 50% margin, then 300, 200 and 100 flat.
	paidA := create("1000.00", strPtr("50.00"))
	paidB := create("300.00", nil)
	late := create("200.00", nil)
	create("100.00", nil)

	advance(paidA, models.BillingStatusBilled, models.BillingStatusReceived, models.BillingStatusPaid)
	advance(paidB, models.BillingStatusBilled, models.BillingStatusReceived, models.BillingStatusPaid)
	advance(late, models.BillingStatusBilled, models.BillingStatusLate)

	svc := NewDashboardService(store, nil)
	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalContracts)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 2, stats.PaidCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("800.00")), "total %s", stats.TotalRevenue)
	assert.True(t, stats.ActiveRevenue.Equal(decimal.RequireFromString("800.00")), "active %s", stats.ActiveRevenue)
	assert.Equal(t, 1, stats.OverdueCount)
	assert.True(t, stats.OverdueAmount.Equal(decimal.RequireFromString("200.00")), "overdue %s", stats.OverdueAmount)
}

func TestDashboardWithoutCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeStatsStore{stats: sampleStats()}
	svc := NewDashboardService(store, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, got.TotalContracts)
	}
	assert.Equal(t, 2, store.calls)

	// Invalidate is a no-op without a cache.
	svc.Invalidate(ctx)
}
