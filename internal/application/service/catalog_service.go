package service

import (
	"context"
	"sync"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"github.com/sangkips/salon-api/internal/pricing"
)

// CatalogService keeps the pricing snapshot of menus, retail products and
// discount types. The snapshot is built on first use and rebuilt after Invalidate.
type CatalogService struct {
	menus     repository.MasterRepository[entity.TreatmentMenu]
	products  repository.MasterRepository[entity.RetailProduct]
	discounts repository.MasterRepository[entity.DiscountType]

	mu         sync.RWMutex
	current    *pricing.Catalog
	lastGood   *pricing.Catalog
	generation uint64
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	menus repository.MasterRepository[entity.TreatmentMenu],
	products repository.MasterRepository[entity.RetailProduct],
	discounts repository.MasterRepository[entity.DiscountType],
) *CatalogService {
	return &CatalogService{
		menus:     menus,
		products:  products,
		discounts: discounts,
	}
}

// Catalog returns the current snapshot. A failed load never surfaces: the
// previous snapshot, or an empty one, is returned and the next call retries.
func (s *CatalogService) Catalog(ctx context.Context) *pricing.Catalog {
	s.mu.RLock()
	c, gen := s.current, s.generation
	s.mu.RUnlock()
	if c != nil {
		return c
	}

	loaded, err := s.load(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("pricing catalog unavailable, prices resolve as unset")
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.lastGood != nil {
			return s.lastGood
		}
		return pricing.EmptyCatalog()
	}

	s.mu.Lock()
	// A write that happened while loading makes this snapshot stale; hand it out
	// once but let the next caller rebuild.
	if s.generation == gen {
		s.current = loaded
	}
	s.lastGood = loaded
	s.mu.Unlock()
	return loaded
}

// Invalidate drops the snapshot. Call after any write to a price-bearing master.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.generation++
	s.mu.Unlock()
}

func (s *CatalogService) load(ctx context.Context) (*pricing.Catalog, error) {
	menus, err := s.menus.List(ctx, false)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, false)
	if err != nil {
		return nil, err
	}
	discounts, err := s.discounts.List(ctx, false)
	if err != nil {
		return nil, err
	}

	menuItems := make([]pricing.Item, len(menus))
	for i, m := range menus {
		menuItems[i] = pricing.Item{
			ID:       m.ID,
			Name:     m.Name,
			Category: deref(m.Category),
			Price:    m.Price,
			Active:   m.IsActive,
		}
	}
	productItems := make([]pricing.Item, len(products))
	for i, p := range products {
		productItems[i] = pricing.Item{
			ID:       p.ID,
			Name:     p.Name,
			Category: deref(p.Category),
			Price:    p.Price,
			Active:   p.IsActive,
		}
	}
	discountItems := make([]pricing.Discount, len(discounts))
	for i, d := range discounts {
		discountItems[i] = pricing.Discount{
			ID:     d.ID,
			Name:   d.Name,
			Kind:   d.DiscountType,
			Value:  d.DiscountValue,
			Active: d.IsActive,
		}
	}

	return pricing.NewCatalog(menuItems, productItems, discountItems), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
