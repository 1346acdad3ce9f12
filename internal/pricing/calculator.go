package pricing

import (
	"math"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

// MenuLine is the resolution of one treatment content slot.
type MenuLine struct {
	Slot   int    `json:"slot"`
	MenuID uint   `json:"menu_id,omitempty"`
	Name   string `json:"name"`
	Price  *int64 `json:"price"`
}

// RetailLine is the resolution of one retail product slot.
type RetailLine struct {
	Slot      int    `json:"slot"`
	ProductID uint   `json:"product_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice *int64 `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// AppliedDiscount describes the discount type a side of the quote resolved to.
type AppliedDiscount struct {
	ID    uint              `json:"id,omitempty"`
	Name  string            `json:"name"`
	Kind  enum.DiscountKind `json:"kind"`
	Value int64             `json:"value"`
}

// Quote is the derived pricing of a selection.
type Quote struct {
	TreatmentFee            int64 `json:"treatment_fee"`
	TreatmentDiscountAmount int64 `json:"treatment_discount_amount"`
	RetailFee               int64 `json:"retail_fee"`
	RetailDiscountAmount    int64 `json:"retail_discount_amount"`
	TotalAmount             int64 `json:"total_amount"`

	MenuLines         []MenuLine       `json:"menu_lines"`
	RetailLines       []RetailLine     `json:"retail_lines"`
	TreatmentDiscount *AppliedDiscount `json:"treatment_discount,omitempty"`
	RetailDiscount    *AppliedDiscount `json:"retail_discount,omitempty"`
	// Overflow is set when the arithmetic could not be represented and the
	// derived amounts were reset to zero.
	Overflow bool `json:"overflow,omitempty"`
}

// EffectiveQuantity is the quantity a product slot is billed for: 0 for an empty
// slot, 1 for a selected product without a quantity, the given value otherwise.
func EffectiveQuantity(slot ProductSlot) int64 {
	if slot.Product.IsEmpty() {
		return 0
	}
	if slot.Quantity == 0 {
		return 1
	}
	return slot.Quantity
}

// DiscountAmount applies a discount type to a base fee. Percentages are floored,
// fixed amounts are returned as is even when they exceed the base.
func DiscountAmount(base int64, kind enum.DiscountKind, value int64) (int64, bool) {
	var a arith
	var amount int64
	switch kind {
	case enum.DiscountKindPercentage:
		amount = floorDiv(a.mul(base, value), 100)
	case enum.DiscountKindFixed:
		amount = value
	}
	return amount, !a.overflow
}

// Calculate prices a selection against the resolver.
func Calculate(r Resolver, sel Selection) Quote {
	var a arith
	q := Quote{
		MenuLines:   make([]MenuLine, 0, ContentSlots),
		RetailLines: make([]RetailLine, 0, ProductSlots),
	}

	for i, ref := range sel.Contents {
		if ref.IsEmpty() {
			continue
		}
		line := MenuLine{Slot: i + 1, Name: StripSuffix(ref.Name)}
		if it, ok := r.LookupItem(CollectionMenus, ref); ok {
			line.MenuID = it.ID
			line.Name = it.Name
			if it.Price != nil {
				price := *it.Price
				line.Price = &price
				q.TreatmentFee = a.add(q.TreatmentFee, price)
			}
		}
		q.MenuLines = append(q.MenuLines, line)
	}

	for i, slot := range sel.Products {
		if slot.Product.IsEmpty() {
			continue
		}
		line := RetailLine{
			Slot:     i + 1,
			Name:     StripSuffix(slot.Product.Name),
			Quantity: EffectiveQuantity(slot),
		}
		if it, ok := r.LookupItem(CollectionProducts, slot.Product); ok {
			line.ProductID = it.ID
			line.Name = it.Name
			if it.Price != nil {
				price := *it.Price
				line.UnitPrice = &price
				line.Subtotal = a.mul(price, line.Quantity)
				q.RetailFee = a.add(q.RetailFee, line.Subtotal)
			}
		}
		q.RetailLines = append(q.RetailLines, line)
	}

	q.TreatmentDiscount, q.TreatmentDiscountAmount = applyDiscount(&a, r, sel.TreatmentDiscount, q.TreatmentFee)
	q.RetailDiscount, q.RetailDiscountAmount = applyDiscount(&a, r, sel.RetailDiscount, q.RetailFee)

	q.TotalAmount = a.add(
		a.sub(q.TreatmentFee, q.TreatmentDiscountAmount),
		a.sub(q.RetailFee, q.RetailDiscountAmount),
	)

	if a.overflow {
		q.TreatmentFee, q.TreatmentDiscountAmount = 0, 0
		q.RetailFee, q.RetailDiscountAmount = 0, 0
		q.TotalAmount = 0
		q.Overflow = true
	}
	return q
}

func applyDiscount(a *arith, r Resolver, ref Ref, base int64) (*AppliedDiscount, int64) {
	if ref.IsEmpty() {
		return nil, 0
	}
	d, ok := r.LookupDiscount(ref)
	if !ok {
		return nil, 0
	}
	amount, ok := DiscountAmount(base, d.Kind, d.Value)
	if !ok {
		a.overflow = true
	}
	return &AppliedDiscount{ID: d.ID, Name: d.Name, Kind: d.Kind, Value: d.Value}, amount
}

// arith is int64 arithmetic that records overflow instead of wrapping.
type arith struct {
	overflow bool
}

func (a *arith) add(x, y int64) int64 {
	if (y > 0 && x > math.MaxInt64-y) || (y < 0 && x < math.MinInt64-y) {
		a.overflow = true
		return 0
	}
	return x + y
}

func (a *arith) sub(x, y int64) int64 {
	if (y < 0 && x > math.MaxInt64+y) || (y > 0 && x < math.MinInt64+y) {
		a.overflow = true
		return 0
	}
	return x - y
}

func (a *arith) mul(x, y int64) int64 {
	if x == 0 || y == 0 {
		return 0
	}
	p := x * y
	if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		a.overflow = true
		return 0
	}
	return p
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}
