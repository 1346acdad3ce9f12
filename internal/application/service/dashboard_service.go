package service

import (
	"context"
	"time"

	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
)

// maxDashboardDays bounds the daily revenue series
const maxDashboardDays = 366

// DashboardService provides dashboard statistics
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	From             string              `json:"from"`
	To               string              `json:"to"`
	TotalCustomers   int64               `json:"total_customers"`
	NewCustomers     int64               `json:"new_customers"`
	TreatmentCount   int64               `json:"treatment_count"`
	TreatmentRevenue int64               `json:"treatment_revenue"`
	RetailRevenue    int64               `json:"retail_revenue"`
	TotalRevenue     int64               `json:"total_revenue"`
	AverageSpend     int64               `json:"average_spend"`
	RevenueGrowth    float64             `json:"revenue_growth"`
	TreatmentsGrowth float64             `json:"treatments_growth"`
	DailySalesData   []DailySalesPoint   `json:"daily_sales_data"`
	TopMenus         []MenuUsagePoint    `json:"top_menus"`
	StylistRevenue   []StylistSalesPoint `json:"stylist_revenue"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

// MenuUsagePoint represents how often a menu was booked
type MenuUsagePoint struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

// StylistSalesPoint represents the takings of one stylist
type StylistSalesPoint struct {
	StylistName    string `json:"stylist_name"`
	TreatmentCount int64  `json:"treatment_count"`
	Revenue        int64  `json:"revenue"`
}

// DashboardInput selects the reporting period. Both dates are inclusive;
// zero values default to the current month up to today.
type DashboardInput struct {
	From time.Time
	To   time.Time
}

// GetDashboardStats returns dashboard statistics for the period and compares
// it with the period of equal length right before it
func (s *DashboardService) GetDashboardStats(ctx context.Context, input *DashboardInput) (*DashboardStats, error) {
	from, to := s.period(input)
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("to must not be before from")
	}
	// Half open upper bound
	end := to.AddDate(0, 0, 1)
	days := int(end.Sub(from).Hours() / 24)
	if days > maxDashboardDays {
		return nil, apperror.NewBadRequestError("period must not exceed one year")
	}

	stats := &DashboardStats{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}

	var err error
	if stats.TotalCustomers, err = s.dashboardRepo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if stats.NewCustomers, err = s.dashboardRepo.CountNewCustomers(ctx, from, end); err != nil {
		return nil, err
	}

	current, err := s.dashboardRepo.Revenue(ctx, from, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.dashboardRepo.Revenue(ctx, from.AddDate(0, 0, -days), from)
	if err != nil {
		return nil, err
	}

	stats.TreatmentCount = current.TreatmentCount
	stats.TreatmentRevenue = current.TreatmentFee - current.TreatmentDiscount
	stats.RetailRevenue = current.RetailFee - current.RetailDiscount
	stats.TotalRevenue = current.Total
	if current.TreatmentCount > 0 {
		stats.AverageSpend = current.Total / current.TreatmentCount
	}
	stats.RevenueGrowth = growth(current.Total, previous.Total)
	stats.TreatmentsGrowth = growth(current.TreatmentCount, previous.TreatmentCount)

	daily, err := s.dashboardRepo.DailyRevenue(ctx, from, end)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: d.Revenue,
		})
	}

	menus, err := s.dashboardRepo.TopMenus(ctx, from, end, 5)
	if err != nil {
		return nil, err
	}
	stats.TopMenus = make([]MenuUsagePoint, 0, len(menus))
	for _, m := range menus {
		stats.TopMenus = append(stats.TopMenus, MenuUsagePoint(m))
	}

	stylists, err := s.dashboardRepo.RevenueByStylist(ctx, from, end)
	if err != nil {
		return nil, err
	}
	stats.StylistRevenue = make([]StylistSalesPoint, 0, len(stylists))
	for _, st := range stylists {
		stats.StylistRevenue = append(stats.StylistRevenue, StylistSalesPoint(st))
	}

	return stats, nil
}

func (s *DashboardService) period(input *DashboardInput) (time.Time, time.Time) {
	now := s.now()
	from, to := input.From, input.To
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return dateOnly(from), dateOnly(to)
}

// growth is the percentage change from previous to current, 0 without a baseline
func growth(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
