package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type treatmentRepository struct {
	db *gorm.DB
}

// NewTreatmentRepository creates a new treatment repository
func NewTreatmentRepository(db *gorm.DB) domainRepo.TreatmentRepository {
	return &treatmentRepository{db: db}
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *entity.Treatment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(treatment).Error; err != nil {
			return err
		}
		return createTreatmentLines(tx, treatment)
	})
}

func (r *treatmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := r.db.WithContext(ctx).
		Scopes(preloadTreatmentLines).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC, created_at ASC")
		}).
		Preload("Customer").
		First(&treatment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &treatment, err
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *entity.Treatment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(treatment).Error; err != nil {
			return err
		}
		if err := tx.Where("treatment_id = ?", treatment.ID).Delete(&entity.TreatmentMenuLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("treatment_id = ?", treatment.ID).Delete(&entity.TreatmentProductLine{}).Error; err != nil {
			return err
		}
		return createTreatmentLines(tx, treatment)
	})
}

func (r *treatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteTreatmentChildren(tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return tx.Delete(&entity.Treatment{}, "id = ?", id).Error
	})
}

func (r *treatmentRepository) List(ctx context.Context, filter domainRepo.TreatmentFilter, params *pagination.PaginationParams) ([]entity.Treatment, int64, error) {
	var treatments []entity.Treatment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Treatment{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("treatment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("treatment_date <= ?", *filter.To)
	}
	if filter.Stylist != "" {
		query = query.Where("stylist_name = ?", filter.Stylist)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Scopes(preloadTreatmentLines).
		Preload("Customer").
		Order("treatment_date DESC, created_at DESC").
		Find(&treatments).Error

	return treatments, total, err
}

func (r *treatmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Treatment, error) {
	var treatments []entity.Treatment
	err := r.db.WithContext(ctx).
		Scopes(preloadTreatmentLines).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("treatment_date DESC, created_at DESC").
		Find(&treatments).Error
	return treatments, err
}

func (r *treatmentRepository) CountMenuUsage(ctx context.Context, menuID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TreatmentMenuLine{}).
		Joins("JOIN treatments ON treatments.id = treatment_menu_lines.treatment_id AND treatments.deleted_at IS NULL").
		Where("treatment_menu_lines.menu_id = ?", menuID).
		Distinct("treatment_menu_lines.treatment_id").
		Count(&count).Error
	return count, err
}

func preloadTreatmentLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("MenuLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		}).
		Preload("ProductLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		})
}

func createTreatmentLines(tx *gorm.DB, treatment *entity.Treatment) error {
	for i := range treatment.MenuLines {
		treatment.MenuLines[i].TreatmentID = treatment.ID
	}
	for i := range treatment.ProductLines {
		treatment.ProductLines[i].TreatmentID = treatment.ID
	}
	if len(treatment.MenuLines) > 0 {
		if err := tx.Create(&treatment.MenuLines).Error; err != nil {
			return err
		}
	}
	if len(treatment.ProductLines) > 0 {
		if err := tx.Create(&treatment.ProductLines).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteTreatmentChildren removes lines and image rows of the given treatments.
// Image files are removed by the caller.
func deleteTreatmentChildren(tx *gorm.DB, treatmentIDs []uuid.UUID) error {
	if err := tx.Where("treatment_id IN ?", treatmentIDs).Delete(&entity.TreatmentMenuLine{}).Error; err != nil {
		return err
	}
	if err := tx.Where("treatment_id IN ?", treatmentIDs).Delete(&entity.TreatmentProductLine{}).Error; err != nil {
		return err
	}
	return tx.Where("treatment_id IN ?", treatmentIDs).Delete(&entity.TreatmentImage{}).Error
}

type treatmentImageRepository struct {
	db *gorm.DB
}

// NewTreatmentImageRepository creates a new treatment image repository
func NewTreatmentImageRepository(db *gorm.DB) domainRepo.TreatmentImageRepository {
	return &treatmentImageRepository{db: db}
}

func (r *treatmentImageRepository) Create(ctx context.Context, image *entity.TreatmentImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *treatmentImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TreatmentImage, error) {
	var image entity.TreatmentImage
	err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &image, err
}

func (r *treatmentImageRepository) GetByFilename(ctx context.Context, filename string) (*entity.TreatmentImage, error) {
	var image entity.TreatmentImage
	err := r.db.WithContext(ctx).First(&image, "filename = ?", filename).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &image, err
}

func (r *treatmentImageRepository) ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentImage, error) {
	var images []entity.TreatmentImage
	err := r.db.WithContext(ctx).
		Where("treatment_id = ?", treatmentID).
		Order("image_order ASC, created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *treatmentImageRepository) NextOrder(ctx context.Context, treatmentID uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := r.db.WithContext(ctx).Model(&entity.TreatmentImage{}).
		Where("treatment_id = ?", treatmentID).
		Select("MAX(image_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *treatmentImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.TreatmentImage{}, "id = ?", id).Error
}
