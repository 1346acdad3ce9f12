package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/pagination"
	"gorm.io/gorm"
)

var customerSearchColumns = []string{"name", "furigana", "phone"}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Omit("Treatments").Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Omit("Treatments").Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var treatmentIDs []uuid.UUID
		if err := tx.Model(&entity.Treatment{}).Where("customer_id = ?", id).Pluck("id", &treatmentIDs).Error; err != nil {
			return err
		}
		if len(treatmentIDs) > 0 {
			if err := deleteTreatmentChildren(tx, treatmentIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", treatmentIDs).Delete(&entity.Treatment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entity.Customer{}, "id = ?", id).Error
	})
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(SearchScope(search, customerSearchColumns...))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&customers).Error

	return customers, total, err
}

// ListWithCursor returns up to limit+1 customers on the keyset (created_at, id).
// Backward pages come newest first so the extra row sits past the page.
func (r *customerRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	var customers []entity.Customer

	params.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(SearchScope(search, customerSearchColumns...))

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	order := "created_at ASC, id ASC"
	if cursor != nil {
		if params.Backward() {
			query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
			order = "created_at DESC, id DESC"
		} else {
			query = query.Where("(created_at > ? OR (created_at = ? AND id > ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Limit + 1).
		Order(order).
		Find(&customers).Error

	return customers, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&total).Error
	return total, err
}
