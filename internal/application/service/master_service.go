package service

import (
	"context"
	"strings"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
)

// MasterInput carries the writable master data fields. Fields a kind does not
// have are ignored; nil means unchanged on update.
type MasterInput struct {
	Name     *string
	IsActive *bool
	Category *string
	Price    *int64
	// ClearPrice resets the price to unset. Ignored when Price is given.
	ClearPrice    bool
	Quantity      *int
	DiscountType  *enum.DiscountKind
	DiscountValue *int64
}

// MasterDeleteResult describes a removed master entry
type MasterDeleteResult struct {
	Name string `json:"deleted_name"`
	// UsageCount is the number of treatments that reference a deleted menu.
	// Their stored lines keep the name and price they were saved with.
	UsageCount int64 `json:"usage_count"`
	WasInUse   bool  `json:"was_in_use"`
}

type masterTable interface {
	list(ctx context.Context, activeOnly bool) (interface{}, error)
	create(ctx context.Context, in *MasterInput) (interface{}, error)
	update(ctx context.Context, id uint, in *MasterInput) (interface{}, error)
	remove(ctx context.Context, id uint) (string, error)
}

// repoTable adapts one MasterRepository to the kind-agnostic operations
type repoTable[T repository.MasterEntity] struct {
	label string
	repo  repository.MasterRepository[T]
	base  func(*T) *entity.Master
	apply func(*T, *MasterInput) error
}

func (t *repoTable[T]) list(ctx context.Context, activeOnly bool) (interface{}, error) {
	return t.repo.List(ctx, activeOnly)
}

func (t *repoTable[T]) create(ctx context.Context, in *MasterInput) (interface{}, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.NewUnprocessableError("name", "name is required")
	}

	item := new(T)
	m := t.base(item)
	m.Name = strings.TrimSpace(*in.Name)
	m.IsActive = true
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if t.apply != nil {
		if err := t.apply(item, in); err != nil {
			return nil, err
		}
	}

	if err := t.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (t *repoTable[T]) update(ctx context.Context, id uint, in *MasterInput) (interface{}, error) {
	item, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(t.label)
	}

	m := t.base(item)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.NewUnprocessableError("name", "name is required")
		}
		m.Name = name
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if t.apply != nil {
		if err := t.apply(item, in); err != nil {
			return nil, err
		}
	}

	if err := t.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (t *repoTable[T]) remove(ctx context.Context, id uint) (string, error) {
	item, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", apperror.NewNotFoundError(t.label)
	}
	name := t.base(item).Name
	return name, t.repo.Delete(ctx, id)
}

// MasterRepositories groups the repositories of every master data table
type MasterRepositories struct {
	Staff           repository.MasterRepository[entity.Staff]
	TreatmentMenus  repository.MasterRepository[entity.TreatmentMenu]
	RetailProducts  repository.MasterRepository[entity.RetailProduct]
	ReferralSources repository.MasterRepository[entity.ReferralSource]
	PaymentMethods  repository.MasterRepository[entity.PaymentMethod]
	DiscountTypes   repository.MasterRepository[entity.DiscountType]
}

// MasterService manages the salon master data
type MasterService struct {
	tables        map[entity.MasterKind]masterTable
	treatmentRepo repository.TreatmentRepository
	catalog       *CatalogService
}

// NewMasterService creates a new master data service
func NewMasterService(repos MasterRepositories, treatmentRepo repository.TreatmentRepository, catalog *CatalogService) *MasterService {
	return &MasterService{
		tables: map[entity.MasterKind]masterTable{
			entity.MasterStaff: &repoTable[entity.Staff]{
				label: "Staff",
				repo:  repos.Staff,
				base:  func(s *entity.Staff) *entity.Master { return &s.Master },
			},
			entity.MasterTreatmentMenus: &repoTable[entity.TreatmentMenu]{
				label: "Treatment menu",
				repo:  repos.TreatmentMenus,
				base:  func(m *entity.TreatmentMenu) *entity.Master { return &m.Master },
				apply: func(m *entity.TreatmentMenu, in *MasterInput) error {
					if in.Category != nil {
						m.Category = blankToNil(in.Category)
					}
					price, err := priceUpdate(m.Price, in)
					if err != nil {
						return err
					}
					m.Price = price
					return nil
				},
			},
			entity.MasterRetailProducts: &repoTable[entity.RetailProduct]{
				label: "Retail product",
				repo:  repos.RetailProducts,
				base:  func(p *entity.RetailProduct) *entity.Master { return &p.Master },
				apply: func(p *entity.RetailProduct, in *MasterInput) error {
					if in.Category != nil {
						p.Category = blankToNil(in.Category)
					}
					price, err := priceUpdate(p.Price, in)
					if err != nil {
						return err
					}
					p.Price = price
					if in.Quantity != nil {
						p.Quantity = *in.Quantity
					}
					return nil
				},
			},
			entity.MasterReferralSources: &repoTable[entity.ReferralSource]{
				label: "Referral source",
				repo:  repos.ReferralSources,
				base:  func(r *entity.ReferralSource) *entity.Master { return &r.Master },
			},
			entity.MasterPaymentMethods: &repoTable[entity.PaymentMethod]{
				label: "Payment method",
				repo:  repos.PaymentMethods,
				base:  func(p *entity.PaymentMethod) *entity.Master { return &p.Master },
			},
			entity.MasterDiscountTypes: &repoTable[entity.DiscountType]{
				label: "Discount type",
				repo:  repos.DiscountTypes,
				base:  func(d *entity.DiscountType) *entity.Master { return &d.Master },
				apply: applyDiscountType,
			},
		},
		treatmentRepo: treatmentRepo,
		catalog:       catalog,
	}
}

func applyDiscountType(d *entity.DiscountType, in *MasterInput) error {
	if in.DiscountType != nil {
		if !in.DiscountType.IsValid() {
			return apperror.NewUnprocessableError("discount_type", "must be percentage or fixed")
		}
		d.DiscountType = *in.DiscountType
	}
	if d.DiscountType == "" {
		d.DiscountType = enum.DiscountKindPercentage
	}
	if in.DiscountValue != nil {
		if *in.DiscountValue < 0 {
			return apperror.NewUnprocessableError("discount_value", "must be zero or greater")
		}
		d.DiscountValue = *in.DiscountValue
	}
	if d.DiscountType == enum.DiscountKindPercentage && d.DiscountValue > 100 {
		return apperror.NewUnprocessableError("discount_value", "percentage must be between 0 and 100")
	}
	return nil
}

// priceUpdate returns the price after applying in to current
func priceUpdate(current *int64, in *MasterInput) (*int64, error) {
	switch {
	case in.Price != nil:
		if *in.Price < 0 {
			return nil, apperror.NewUnprocessableError("price", "must be zero or greater")
		}
		v := *in.Price
		return &v, nil
	case in.ClearPrice:
		return nil, nil
	default:
		return current, nil
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (s *MasterService) lookup(kind entity.MasterKind) (masterTable, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, apperror.NewNotFoundError("Master data type")
	}
	return t, nil
}

// List returns the entries of one master table ordered by id
func (s *MasterService) List(ctx context.Context, kind entity.MasterKind, activeOnly bool) (interface{}, error) {
	t, err := s.lookup(kind)
	if err != nil {
		return nil, err
	}
	return t.list(ctx, activeOnly)
}

// Create adds an entry. New entries are active unless stated otherwise.
func (s *MasterService) Create(ctx context.Context, kind entity.MasterKind, in *MasterInput) (interface{}, error) {
	t, err := s.lookup(kind)
	if err != nil {
		return nil, err
	}
	item, err := t.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(kind)
	return item, nil
}

// Update changes an entry, including toggling it active or inactive
func (s *MasterService) Update(ctx context.Context, kind entity.MasterKind, id uint, in *MasterInput) (interface{}, error) {
	t, err := s.lookup(kind)
	if err != nil {
		return nil, err
	}
	item, err := t.update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(kind)
	return item, nil
}

// Delete soft deletes an entry. Saved treatments are not touched.
func (s *MasterService) Delete(ctx context.Context, kind entity.MasterKind, id uint) (*MasterDeleteResult, error) {
	t, err := s.lookup(kind)
	if err != nil {
		return nil, err
	}

	var usage int64
	if kind == entity.MasterTreatmentMenus {
		if usage, err = s.treatmentRepo.CountMenuUsage(ctx, id); err != nil {
			return nil, err
		}
	}

	name, err := t.remove(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(kind)

	return &MasterDeleteResult{Name: name, UsageCount: usage, WasInUse: usage > 0}, nil
}

func (s *MasterService) changed(kind entity.MasterKind) {
	if kind.PricesCatalog() {
		s.catalog.Invalidate()
	}
}
