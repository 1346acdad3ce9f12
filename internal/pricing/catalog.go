package pricing

import "github.com/sangkips/salon-api/internal/domain/enum"

type itemIndex struct {
	items  []Item
	byID   map[uint]int
	byName map[string]int
}

func newItemIndex(items []Item) itemIndex {
	idx := itemIndex{
		items:  items,
		byID:   make(map[uint]int, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, it := range items {
		if !it.Active {
			continue
		}
		idx.byID[it.ID] = i
		// First active entry with a given name wins
		if _, exists := idx.byName[it.Name]; !exists {
			idx.byName[it.Name] = i
		}
	}
	return idx
}

func (idx itemIndex) lookup(ref Ref) (int, bool) {
	if ref.ID != 0 {
		i, ok := idx.byID[ref.ID]
		return i, ok
	}
	if ref.Name == "" {
		return 0, false
	}
	i, ok := idx.byName[StripSuffix(ref.Name)]
	return i, ok
}

// Catalog is an immutable, indexed snapshot of the price-bearing master data.
// Only active entries are resolvable.
type Catalog struct {
	menus     itemIndex
	products  itemIndex
	discounts []Discount
	discByID  map[uint]int
	discByNm  map[string]int
}

// NewCatalog indexes the given entries. Slices are kept in the given order,
// which decides which entry wins when active names collide.
func NewCatalog(menus, products []Item, discounts []Discount) *Catalog {
	c := &Catalog{
		menus:     newItemIndex(menus),
		products:  newItemIndex(products),
		discounts: discounts,
		discByID:  make(map[uint]int, len(discounts)),
		discByNm:  make(map[string]int, len(discounts)),
	}
	for i, d := range discounts {
		if !d.Active {
			continue
		}
		c.discByID[d.ID] = i
		if _, exists := c.discByNm[d.Name]; !exists {
			c.discByNm[d.Name] = i
		}
	}
	return c
}

// EmptyCatalog resolves nothing.
func EmptyCatalog() *Catalog {
	return NewCatalog(nil, nil, nil)
}

func (c *Catalog) index(coll Collection) (itemIndex, bool) {
	switch coll {
	case CollectionMenus:
		return c.menus, true
	case CollectionProducts:
		return c.products, true
	}
	return itemIndex{}, false
}

// LookupItem returns the active entry the reference points at.
func (c *Catalog) LookupItem(coll Collection, ref Ref) (Item, bool) {
	idx, ok := c.index(coll)
	if !ok {
		return Item{}, false
	}
	i, ok := idx.lookup(ref)
	if !ok {
		return Item{}, false
	}
	return idx.items[i], true
}

// LookupDiscount returns the active discount type the reference points at.
func (c *Catalog) LookupDiscount(ref Ref) (Discount, bool) {
	var (
		i  int
		ok bool
	)
	switch {
	case ref.ID != 0:
		i, ok = c.discByID[ref.ID]
	case ref.Name != "":
		i, ok = c.discByNm[StripSuffix(ref.Name)]
	}
	if !ok {
		return Discount{}, false
	}
	return c.discounts[i], true
}

// ResolvePrice returns the price of the first active entry named itemName in the
// collection. Unknown, inactive, empty or unpriced entries resolve to false.
func (c *Catalog) ResolvePrice(coll Collection, itemName string) (int64, bool) {
	it, ok := c.LookupItem(coll, NameRef(itemName))
	if !ok || it.Price == nil {
		return 0, false
	}
	return *it.Price, true
}

// ResolveDiscountValue returns the raw value of the named active discount type.
func (c *Catalog) ResolveDiscountValue(selector string) (int64, bool) {
	d, ok := c.LookupDiscount(NameRef(selector))
	if !ok {
		return 0, false
	}
	return d.Value, true
}

// ResolveDiscountKind returns the kind and raw value of the named active discount type.
func (c *Catalog) ResolveDiscountKind(selector string) (enum.DiscountKind, int64, bool) {
	d, ok := c.LookupDiscount(NameRef(selector))
	if !ok {
		return "", 0, false
	}
	return d.Kind, d.Value, true
}

// Items returns the indexed entries of a collection, active or not.
func (c *Catalog) Items(coll Collection) []Item {
	idx, ok := c.index(coll)
	if !ok {
		return nil
	}
	return idx.items
}

// Discounts returns every indexed discount type, active or not.
func (c *Catalog) Discounts() []Discount {
	return c.discounts
}
