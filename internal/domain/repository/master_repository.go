package repository

import (
	"context"

	"github.com/sangkips/salon-api/internal/domain/entity"
)

// MasterEntity is satisfied by every master data entity
type MasterEntity interface {
	entity.Staff | entity.TreatmentMenu | entity.RetailProduct |
		entity.ReferralSource | entity.PaymentMethod | entity.DiscountType
}

// MasterRepository defines the data operations shared by all master data tables.
// Lists are ordered by id.
type MasterRepository[T MasterEntity] interface {
	List(ctx context.Context, activeOnly bool) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
