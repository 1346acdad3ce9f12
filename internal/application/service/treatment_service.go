package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/pricing"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// TreatmentService records customer visits and prices them with the shared calculator
type TreatmentService struct {
	treatmentRepo repository.TreatmentRepository
	customerRepo  repository.CustomerRepository
	staffRepo     repository.MasterRepository[entity.Staff]
	paymentRepo   repository.MasterRepository[entity.PaymentMethod]
	catalog       *CatalogService
	files         FileStore
}

// NewTreatmentService creates a new treatment service
func NewTreatmentService(
	treatmentRepo repository.TreatmentRepository,
	customerRepo repository.CustomerRepository,
	staffRepo repository.MasterRepository[entity.Staff],
	paymentRepo repository.MasterRepository[entity.PaymentMethod],
	catalog *CatalogService,
	files FileStore,
) *TreatmentService {
	return &TreatmentService{
		treatmentRepo: treatmentRepo,
		customerRepo:  customerRepo,
		staffRepo:     staffRepo,
		paymentRepo:   paymentRepo,
		catalog:       catalog,
		files:         files,
	}
}

// SelectionInput is the pricing part of a treatment form. List positions are
// slots: an empty reference keeps its slot blank.
type SelectionInput struct {
	Contents          []pricing.Ref
	Products          []pricing.ProductSlot
	TreatmentDiscount pricing.Ref
	RetailDiscount    pricing.Ref
}

// Selection validates the slot counts and builds the calculator selection
func (in *SelectionInput) Selection() (pricing.Selection, error) {
	var sel pricing.Selection
	if len(in.Contents) > pricing.ContentSlots {
		return sel, apperror.NewUnprocessableError("contents", fmt.Sprintf("at most %d treatment contents are allowed", pricing.ContentSlots))
	}
	if len(in.Products) > pricing.ProductSlots {
		return sel, apperror.NewUnprocessableError("products", fmt.Sprintf("at most %d retail products are allowed", pricing.ProductSlots))
	}
	copy(sel.Contents[:], in.Contents)
	copy(sel.Products[:], in.Products)
	sel.TreatmentDiscount = in.TreatmentDiscount
	sel.RetailDiscount = in.RetailDiscount
	return sel, nil
}

// TreatmentInput holds every field of a treatment form
type TreatmentInput struct {
	CustomerID    uuid.UUID
	TreatmentDate time.Time
	TreatmentTime *string
	StylistID     *uint
	StylistName   string
	SelectionInput

	StyleMemo           *string
	UsedChemicals       *string
	Solution1Time       *string
	Solution2Time       *string
	ColorTime1          *string
	ColorTime2          *string
	OtherDetails        *string
	Notes               *string
	ConversationContent *string
	PaymentMethodID     *uint
	PaymentMethod       *string
	NextAppointmentDate *time.Time
	NextAppointmentTime *string
}

// CreateTreatmentInput represents the create treatment input
type CreateTreatmentInput struct {
	UserID uuid.UUID
	TreatmentInput
}

// CreateTreatment records a visit. Amounts are always computed here; a client
// cannot supply its own totals.
func (s *TreatmentService) CreateTreatment(ctx context.Context, input *CreateTreatmentInput) (*entity.Treatment, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewUnprocessableError("customer_id", "customer does not exist")
	}

	treatment := &entity.Treatment{
		CustomerID: input.CustomerID,
		UserID:     input.UserID,
	}
	if err := s.fill(ctx, treatment, &input.TreatmentInput); err != nil {
		return nil, err
	}

	if err := s.treatmentRepo.Create(ctx, treatment); err != nil {
		return nil, err
	}

	return s.GetTreatment(ctx, treatment.ID)
}

// UpdateTreatmentInput represents the update treatment input. The form is
// submitted as a whole, so every field is replaced.
type UpdateTreatmentInput struct {
	ID uuid.UUID
	TreatmentInput
}

// UpdateTreatment replaces a treatment and recomputes its bill
func (s *TreatmentService) UpdateTreatment(ctx context.Context, input *UpdateTreatmentInput) (*entity.Treatment, error) {
	treatment, err := s.treatmentRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	if input.CustomerID != uuid.Nil && input.CustomerID != treatment.CustomerID {
		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewUnprocessableError("customer_id", "customer does not exist")
		}
		treatment.CustomerID = input.CustomerID
	}
	// Stale preloads would otherwise be written back
	treatment.Customer = nil
	treatment.Images = nil

	if err := s.fill(ctx, treatment, &input.TreatmentInput); err != nil {
		return nil, err
	}

	if err := s.treatmentRepo.Update(ctx, treatment); err != nil {
		return nil, err
	}

	return s.GetTreatment(ctx, treatment.ID)
}

// fill copies the form onto t and writes the pricing snapshot
func (s *TreatmentService) fill(ctx context.Context, t *entity.Treatment, in *TreatmentInput) error {
	if in.TreatmentDate.IsZero() {
		return apperror.NewUnprocessableError("treatment_date", "treatment date is required")
	}
	sel, err := in.Selection()
	if err != nil {
		return err
	}

	if err := s.resolveStylist(ctx, t, in); err != nil {
		return err
	}
	if err := s.resolvePaymentMethod(ctx, t, in); err != nil {
		return err
	}

	t.TreatmentDate = dateOnly(in.TreatmentDate)
	t.TreatmentTime = in.TreatmentTime
	t.StyleMemo = in.StyleMemo
	t.UsedChemicals = in.UsedChemicals
	t.Solution1Time = in.Solution1Time
	t.Solution2Time = in.Solution2Time
	t.ColorTime1 = in.ColorTime1
	t.ColorTime2 = in.ColorTime2
	t.OtherDetails = in.OtherDetails
	t.Notes = in.Notes
	t.ConversationContent = in.ConversationContent
	t.NextAppointmentTime = in.NextAppointmentTime
	t.NextAppointmentDate = nil
	if in.NextAppointmentDate != nil {
		d := dateOnly(*in.NextAppointmentDate)
		t.NextAppointmentDate = &d
	}

	applyQuote(t, pricing.Calculate(s.catalog.Catalog(ctx), sel))
	return nil
}

func (s *TreatmentService) resolveStylist(ctx context.Context, t *entity.Treatment, in *TreatmentInput) error {
	if in.StylistID != nil {
		staff, err := s.staffRepo.GetByID(ctx, *in.StylistID)
		if err != nil {
			return err
		}
		if staff == nil {
			return apperror.NewUnprocessableError("stylist_id", "stylist does not exist")
		}
		t.StylistID = &staff.ID
		t.StylistName = staff.Name
		return nil
	}

	name := pricing.StripSuffix(strings.TrimSpace(in.StylistName))
	if name == "" {
		return apperror.NewUnprocessableError("stylist_name", "stylist is required")
	}
	t.StylistID = nil
	t.StylistName = name

	staff, err := s.staffRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, st := range staff {
		if st.Name == name {
			t.StylistID = &st.ID
			break
		}
	}
	return nil
}

func (s *TreatmentService) resolvePaymentMethod(ctx context.Context, t *entity.Treatment, in *TreatmentInput) error {
	t.PaymentMethodID = nil
	t.PaymentMethod = nil

	if in.PaymentMethodID != nil {
		pm, err := s.paymentRepo.GetByID(ctx, *in.PaymentMethodID)
		if err != nil {
			return err
		}
		if pm == nil {
			return apperror.NewUnprocessableError("payment_method_id", "payment method does not exist")
		}
		t.PaymentMethodID = &pm.ID
		t.PaymentMethod = &pm.Name
		return nil
	}

	if in.PaymentMethod != nil {
		if name := pricing.StripSuffix(strings.TrimSpace(*in.PaymentMethod)); name != "" {
			t.PaymentMethod = &name
		}
	}
	return nil
}

// applyQuote writes the calculator output onto the treatment
func applyQuote(t *entity.Treatment, q pricing.Quote) {
	t.TreatmentFee = q.TreatmentFee
	t.TreatmentDiscountAmount = q.TreatmentDiscountAmount
	t.RetailFee = q.RetailFee
	t.RetailDiscountAmount = q.RetailDiscountAmount
	t.TotalAmount = q.TotalAmount

	t.TreatmentDiscountTypeID, t.TreatmentDiscountType = appliedDiscount(q.TreatmentDiscount)
	t.RetailDiscountTypeID, t.RetailDiscountType = appliedDiscount(q.RetailDiscount)

	t.MenuLines = make([]entity.TreatmentMenuLine, 0, len(q.MenuLines))
	for _, l := range q.MenuLines {
		t.MenuLines = append(t.MenuLines, entity.TreatmentMenuLine{
			Slot:   l.Slot,
			MenuID: optionalID(l.MenuID),
			Name:   l.Name,
			Price:  l.Price,
		})
	}
	t.ProductLines = make([]entity.TreatmentProductLine, 0, len(q.RetailLines))
	for _, l := range q.RetailLines {
		t.ProductLines = append(t.ProductLines, entity.TreatmentProductLine{
			Slot:      l.Slot,
			ProductID: optionalID(l.ProductID),
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}
}

func appliedDiscount(d *pricing.AppliedDiscount) (*uint, *string) {
	if d == nil {
		return nil, nil
	}
	name := d.Name
	return optionalID(d.ID), &name
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetTreatment retrieves a treatment with its lines, photos and customer
func (s *TreatmentService) GetTreatment(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	treatment, err := s.treatmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}
	return treatment, nil
}

// ListTreatmentsInput represents the treatment list filters
type ListTreatmentsInput struct {
	CustomerID *uuid.UUID
	From       *time.Time
	// To is inclusive
	To      *time.Time
	Stylist string
	pagination.PaginationParams
}

// ListTreatments lists treatments, most recent visit first
func (s *TreatmentService) ListTreatments(ctx context.Context, input *ListTreatmentsInput) (*pagination.PaginatedResult[entity.Treatment], error) {
	params := input.PaginationParams
	params.Validate()

	filter := repository.TreatmentFilter{
		CustomerID: input.CustomerID,
		Stylist:    input.Stylist,
	}
	if input.From != nil {
		from := dateOnly(*input.From)
		filter.From = &from
	}
	if input.To != nil {
		to := dateOnly(*input.To)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewBadRequestError("to must not be before from")
	}

	treatments, total, err := s.treatmentRepo.List(ctx, filter, &params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(treatments, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// DeleteTreatment removes a treatment and its photos
func (s *TreatmentService) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	treatment, err := s.GetTreatment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.treatmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	removeImageFiles(ctx, s.files, treatment.Images)
	return nil
}

// QuoteInput is a pricing preview request: a starting selection and the edits
// applied to it in order
type QuoteInput struct {
	SelectionInput
	Events []pricing.Event
}

// QuoteOutput is the selection after all edits and its price
type QuoteOutput struct {
	Selection pricing.Selection `json:"selection"`
	Quote     pricing.Quote     `json:"quote"`
}

// Quote prices a selection without saving anything
func (s *TreatmentService) Quote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	sel, err := input.Selection()
	if err != nil {
		return nil, err
	}

	sel, err = pricing.Replay(sel, input.Events)
	if err != nil {
		return nil, apperror.NewUnprocessableError("events", err.Error())
	}

	return &QuoteOutput{
		Selection: sel,
		Quote:     pricing.Calculate(s.catalog.Catalog(ctx), sel),
	}, nil
}
