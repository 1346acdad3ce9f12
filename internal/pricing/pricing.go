// Package pricing computes treatment and retail totals for a treatment record.
//
// Every figure is derived from the whole current selection against an in-memory
// master data snapshot, so callers never patch a previous result: clearing a slot
// or switching a discount type simply produces a new Quote.
package pricing

import (
	"strings"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

// Slot counts of a treatment record.
const (
	ContentSlots = 8
	ProductSlots = 3
)

// Collection names a price-bearing master data collection.
type Collection string

const (
	CollectionMenus    Collection = "treatment-menus"
	CollectionProducts Collection = "retail-products"
)

// Ref points at a master data entry. A non-zero ID is authoritative; otherwise
// Name is matched after StripSuffix.
type Ref struct {
	ID   uint   `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsEmpty reports whether the reference selects nothing.
func (r Ref) IsEmpty() bool {
	return r.ID == 0 && r.Name == ""
}

// NameRef builds a name-only reference.
func NameRef(name string) Ref {
	return Ref{Name: name}
}

// ProductSlot is one retail product position with its quantity.
type ProductSlot struct {
	Product  Ref   `json:"product"`
	Quantity int64 `json:"quantity"`
}

// Selection is the pricing-relevant state of a treatment form.
type Selection struct {
	Contents          [ContentSlots]Ref         `json:"contents"`
	Products          [ProductSlots]ProductSlot `json:"products"`
	TreatmentDiscount Ref                       `json:"treatment_discount"`
	RetailDiscount    Ref                       `json:"retail_discount"`
}

// Item is a menu or retail product entry as seen by the calculator.
type Item struct {
	ID       uint
	Name     string
	Category string
	Price    *int64
	Active   bool
}

// Discount is a discount type entry as seen by the calculator.
type Discount struct {
	ID     uint
	Name   string
	Kind   enum.DiscountKind
	Value  int64
	Active bool
}

// Resolver looks up active master data entries.
type Resolver interface {
	LookupItem(c Collection, ref Ref) (Item, bool)
	LookupDiscount(ref Ref) (Discount, bool)
}

// StripSuffix removes one trailing "-<digits>" group used to tell apart
// identically named entries.
func StripSuffix(name string) string {
	i := strings.LastIndexByte(name, '-')
	if i < 0 || i == len(name)-1 {
		return name
	}
	for _, r := range name[i+1:] {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:i]
}
