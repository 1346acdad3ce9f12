package repository

import (
	"context"
	"errors"

	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"gorm.io/gorm"
)

type masterRepository[T domainRepo.MasterEntity] struct {
	db *gorm.DB
}

// NewMasterRepository creates a repository for one master data table
func NewMasterRepository[T domainRepo.MasterEntity](db *gorm.DB) domainRepo.MasterRepository[T] {
	return &masterRepository[T]{db: db}
}

func (r *masterRepository[T]) List(ctx context.Context, activeOnly bool) ([]T, error) {
	items := make([]T, 0)
	query := r.db.WithContext(ctx).Model(new(T))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *masterRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *masterRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *masterRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *masterRepository[T]) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}

func (r *masterRepository[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error
	return total, err
}
