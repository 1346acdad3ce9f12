package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// TreatmentFilter narrows a treatment listing. Zero values mean no filter.
type TreatmentFilter struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Stylist    string
}

// TreatmentRepository defines the interface for treatment data operations
type TreatmentRepository interface {
	// Create stores the treatment and its menu and product lines in one transaction
	Create(ctx context.Context, treatment *entity.Treatment) error
	// GetByID loads the treatment with lines, images and customer
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error)
	// Update saves the treatment and replaces its lines
	Update(ctx context.Context, treatment *entity.Treatment) error
	// Delete removes the treatment, its lines and images
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TreatmentFilter, params *pagination.PaginationParams) ([]entity.Treatment, int64, error)
	// ListByCustomer returns every treatment of a customer, newest first
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Treatment, error)
	// CountMenuUsage counts the treatments with at least one line for the menu
	CountMenuUsage(ctx context.Context, menuID uint) (int64, error)
}

// TreatmentImageRepository defines the interface for treatment image operations
type TreatmentImageRepository interface {
	Create(ctx context.Context, image *entity.TreatmentImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TreatmentImage, error)
	GetByFilename(ctx context.Context, filename string) (*entity.TreatmentImage, error)
	ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentImage, error)
	// NextOrder returns the image_order the next image of the treatment should get
	NextOrder(ctx context.Context, treatmentID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
