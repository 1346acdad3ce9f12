package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo  repository.CustomerRepository
	treatmentRepo repository.TreatmentRepository
	files         FileStore
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	treatmentRepo repository.TreatmentRepository,
	files FileStore,
) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		treatmentRepo: treatmentRepo,
		files:         files,
	}
}

// CustomerProfile holds the intake sheet fields shared by create and update
type CustomerProfile struct {
	Furigana         *string
	Gender           *enum.Gender
	Phone            *string
	EmergencyContact *string
	DateOfBirth      *time.Time
	Age              *int
	Occupation       *string
	PostalCode       *string
	Address          *string
	VisitingFamily   *string
	Email            *string
	BloodType        *enum.BloodType
	Allergies        *string
	MedicalHistory   *string
	Notes            *string
	ReferralSource1  *string
	ReferralSource2  *string
	ReferralSource3  *string
	ReferralDetails  *string
}

// apply copies every non-nil field onto c
func (p *CustomerProfile) apply(c *entity.Customer) {
	if p.Furigana != nil {
		c.Furigana = p.Furigana
	}
	if p.Gender != nil {
		c.Gender = p.Gender
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.EmergencyContact != nil {
		c.EmergencyContact = p.EmergencyContact
	}
	if p.DateOfBirth != nil {
		c.DateOfBirth = p.DateOfBirth
	}
	if p.Age != nil {
		c.Age = p.Age
	}
	if p.Occupation != nil {
		c.Occupation = p.Occupation
	}
	if p.PostalCode != nil {
		c.PostalCode = p.PostalCode
	}
	if p.Address != nil {
		c.Address = p.Address
	}
	if p.VisitingFamily != nil {
		c.VisitingFamily = p.VisitingFamily
	}
	if p.Email != nil {
		c.Email = p.Email
	}
	if p.BloodType != nil {
		c.BloodType = p.BloodType
	}
	if p.Allergies != nil {
		c.Allergies = p.Allergies
	}
	if p.MedicalHistory != nil {
		c.MedicalHistory = p.MedicalHistory
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
	if p.ReferralSource1 != nil {
		c.ReferralSource1 = p.ReferralSource1
	}
	if p.ReferralSource2 != nil {
		c.ReferralSource2 = p.ReferralSource2
	}
	if p.ReferralSource3 != nil {
		c.ReferralSource3 = p.ReferralSource3
	}
	if p.ReferralDetails != nil {
		c.ReferralDetails = p.ReferralDetails
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID uuid.UUID
	Name   string
	CustomerProfile
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		UserID: input.UserID,
		Name:   input.Name,
	}
	input.CustomerProfile.apply(customer)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers, newest first
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers oldest first on a keyset cursor
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	if _, err := params.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(customers, params,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// ListCustomerTreatments returns the visit history of a customer, newest first
func (s *CustomerService) ListCustomerTreatments(ctx context.Context, id uuid.UUID) ([]entity.Treatment, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.treatmentRepo.ListByCustomer(ctx, id)
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID   uuid.UUID
	Name *string
	CustomerProfile
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	input.CustomerProfile.apply(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer, their treatments and every stored photo
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	treatments, err := s.treatmentRepo.ListByCustomer(ctx, id)
	if err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, t := range treatments {
		removeImageFiles(ctx, s.files, t.Images)
	}
	return nil
}

// removeImageFiles deletes stored photos after their rows are gone.
// Failures leave an orphaned file behind and are only logged.
func removeImageFiles(ctx context.Context, files FileStore, images []entity.TreatmentImage) {
	for _, img := range images {
		if err := files.Remove(img.Filename); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", img.Filename).Msg("failed to remove treatment image")
		}
	}
}
