package repository

import (
	"context"
	"time"
)

// RevenueSummary aggregates the pricing snapshots of treatments in a period
type RevenueSummary struct {
	TreatmentCount    int64
	TreatmentFee      int64
	TreatmentDiscount int64
	RetailFee         int64
	RetailDiscount    int64
	Total             int64
}

// MenuUsageResult represents how often a menu was booked
type MenuUsageResult struct {
	Name    string
	Count   int64
	Revenue int64
}

// StylistRevenueResult represents revenue per stylist
type StylistRevenueResult struct {
	StylistName    string
	TreatmentCount int64
	Revenue        int64
}

// DailyRevenueResult represents revenue for a single day
type DailyRevenueResult struct {
	Date    time.Time
	Revenue int64
}

// DashboardRepository defines aggregation queries over treatments.
// Periods are half open: from <= treatment_date < to.
type DashboardRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountNewCustomers(ctx context.Context, from, to time.Time) (int64, error)
	Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
	TopMenus(ctx context.Context, from, to time.Time, limit int) ([]MenuUsageResult, error)
	RevenueByStylist(ctx context.Context, from, to time.Time) ([]StylistRevenueResult, error)
	DailyRevenue(ctx context.Context, from, to time.Time) ([]DailyRevenueResult, error)
}
