package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) domainRepo.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountCustomers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&total).Error
	return total, err
}

func (r *dashboardRepository) CountNewCustomers(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&total).Error
	return total, err
}

func (r *dashboardRepository) Revenue(ctx context.Context, from, to time.Time) (*domainRepo.RevenueSummary, error) {
	var summary domainRepo.RevenueSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as treatment_count,
			COALESCE(SUM(treatment_fee), 0) as treatment_fee,
			COALESCE(SUM(treatment_discount_amount), 0) as treatment_discount,
			COALESCE(SUM(retail_fee), 0) as retail_fee,
			COALESCE(SUM(retail_discount_amount), 0) as retail_discount,
			COALESCE(SUM(total_amount), 0) as total
		FROM treatments
		WHERE deleted_at IS NULL
		AND treatment_date >= ? AND treatment_date < ?
	`, from, to).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *dashboardRepository) TopMenus(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.MenuUsageResult, error) {
	var results []domainRepo.MenuUsageResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			l.name as name,
			COUNT(*) as count,
			COALESCE(SUM(l.price), 0) as revenue
		FROM treatment_menu_lines l
		JOIN treatments t ON t.id = l.treatment_id
		WHERE t.deleted_at IS NULL
		AND t.treatment_date >= ? AND t.treatment_date < ?
		GROUP BY l.name
		ORDER BY count DESC, l.name ASC
		LIMIT ?
	`, from, to, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dashboardRepository) RevenueByStylist(ctx context.Context, from, to time.Time) ([]domainRepo.StylistRevenueResult, error) {
	var results []domainRepo.StylistRevenueResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			stylist_name,
			COUNT(*) as treatment_count,
			COALESCE(SUM(total_amount), 0) as revenue
		FROM treatments
		WHERE deleted_at IS NULL
		AND treatment_date >= ? AND treatment_date < ?
		GROUP BY stylist_name
		ORDER BY revenue DESC, stylist_name ASC
	`, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dashboardRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]domainRepo.DailyRevenueResult, error) {
	results := make([]domainRepo.DailyRevenueResult, 0)

	// One query per day keeps the date handling identical on postgres and sqlite
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)

		var revenue sql.NullInt64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total_amount), 0)
			FROM treatments
			WHERE deleted_at IS NULL
			AND treatment_date >= ? AND treatment_date < ?
		`, day, next).Scan(&revenue).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailyRevenueResult{
			Date:    day,
			Revenue: revenue.Int64,
		})
	}

	return results, nil
}
