package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

func price(v int64) *int64 { return &v }

func testCatalog() *Catalog {
	menus := []Item{
		{ID: 1, Name: "カット", Category: "カットメニュー", Price: price(3000), Active: true},
		{ID: 2, Name: "前髪カット", Category: "カットメニュー", Price: price(1000), Active: true},
		{ID: 3, Name: "Mカラー", Category: "カラーメニュー", Price: price(6000), Active: true},
		{ID: 4, Name: "ヘッドスパ", Category: "その他メニュー", Price: price(1500), Active: false},
		{ID: 5, Name: "ヘッドスパ", Category: "その他メニュー", Price: price(1800), Active: true},
		{ID: 6, Name: "カウンセリング", Category: "その他メニュー", Price: nil, Active: true},
	}
	products := []Item{
		{ID: 1, Name: "シャンプー", Category: "ヘアケア", Price: price(2000), Active: true},
		{ID: 2, Name: "ブラシ", Category: "ツール", Price: price(800), Active: true},
		{ID: 3, Name: "ドライヤー", Category: "ツール", Price: price(5000), Active: false},
	}
	discounts := []Discount{
		{ID: 1, Name: "クーポン割引", Kind: enum.DiscountKindPercentage, Value: 10, Active: true},
		{ID: 2, Name: "会員割引", Kind: enum.DiscountKindPercentage, Value: 15, Active: true},
		{ID: 3, Name: "固定割引", Kind: enum.DiscountKindFixed, Value: 500, Active: true},
		{ID: 4, Name: "初回割引", Kind: enum.DiscountKindFixed, Value: 1000, Active: true},
		{ID: 5, Name: "季節割引", Kind: enum.DiscountKindPercentage, Value: 5, Active: false},
	}
	return NewCatalog(menus, products, discounts)
}

func TestStripSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"カット-1", "カット"},
		{"カット-123", "カット"},
		{"カット", "カット"},
		{"カット-", "カット-"},
		{"カット-a1", "カット-a1"},
		{"S-カラー-2", "S-カラー"},
		{"a-1-2", "a-1"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSuffix(tt.in))
		})
	}
}

func TestCatalog_ResolvePrice(t *testing.T) {
	c := testCatalog()

	p, ok := c.ResolvePrice(CollectionMenus, "カット")
	require.True(t, ok)
	assert.Equal(t, int64(3000), p)

	p, ok = c.ResolvePrice(CollectionMenus, "Mカラー-3")
	require.True(t, ok)
	assert.Equal(t, int64(6000), p)

	t.Run("inactive entries are skipped", func(t *testing.T) {
		p, ok := c.ResolvePrice(CollectionMenus, "ヘッドスパ")
		require.True(t, ok)
		assert.Equal(t, int64(1800), p)

		_, ok = c.ResolvePrice(CollectionProducts, "ドライヤー")
		assert.False(t, ok)
	})

	t.Run("unresolved", func(t *testing.T) {
		_, ok := c.ResolvePrice(CollectionMenus, "")
		assert.False(t, ok)
		_, ok = c.ResolvePrice(CollectionMenus, "パーマ")
		assert.False(t, ok)
		_, ok = c.ResolvePrice(CollectionMenus, "カウンセリング")
		assert.False(t, ok)
		_, ok = c.ResolvePrice(Collection("staff"), "カット")
		assert.False(t, ok)
	})
}

func TestCatalog_FirstActiveNameWins(t *testing.T) {
	c := NewCatalog([]Item{
		{ID: 10, Name: "パーマ", Price: price(8000), Active: true},
		{ID: 11, Name: "パーマ", Price: price(9000), Active: true},
	}, nil, nil)

	p, ok := c.ResolvePrice(CollectionMenus, "パーマ-11")
	require.True(t, ok)
	assert.Equal(t, int64(8000), p)

	it, ok := c.LookupItem(CollectionMenus, Ref{ID: 11, Name: "パーマ"})
	require.True(t, ok)
	assert.Equal(t, int64(9000), *it.Price)
}

func TestCatalog_ResolveDiscount(t *testing.T) {
	c := testCatalog()

	v, ok := c.ResolveDiscountValue("クーポン割引-1")
	require.True(t, ok)
	assert.Equal(t, int64(10), v)

	kind, v, ok := c.ResolveDiscountKind("固定割引")
	require.True(t, ok)
	assert.Equal(t, enum.DiscountKindFixed, kind)
	assert.Equal(t, int64(500), v)

	_, ok = c.ResolveDiscountValue("季節割引")
	assert.False(t, ok)
	_, _, ok = c.ResolveDiscountKind("")
	assert.False(t, ok)

	_, ok = c.LookupDiscount(Ref{ID: 5})
	assert.False(t, ok)
}

func TestEmptyCatalog(t *testing.T) {
	c := EmptyCatalog()
	_, ok := c.ResolvePrice(CollectionMenus, "カット")
	assert.False(t, ok)
	assert.Empty(t, c.Items(CollectionMenus))
	assert.Empty(t, c.Discounts())
}

func TestEffectiveQuantity(t *testing.T) {
	assert.Equal(t, int64(0), EffectiveQuantity(ProductSlot{Quantity: 5}))
	assert.Equal(t, int64(1), EffectiveQuantity(ProductSlot{Product: NameRef("シャンプー")}))
	assert.Equal(t, int64(3), EffectiveQuantity(ProductSlot{Product: NameRef("シャンプー"), Quantity: 3}))
	assert.Equal(t, int64(-2), EffectiveQuantity(ProductSlot{Product: NameRef("シャンプー"), Quantity: -2}))
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name  string
		base  int64
		kind  enum.DiscountKind
		value int64
		want  int64
	}{
		{"percentage", 9000, enum.DiscountKindPercentage, 10, 900},
		{"percentage floors", 3050, enum.DiscountKindPercentage, 15, 457},
		{"percentage of zero", 0, enum.DiscountKindPercentage, 20, 0},
		{"zero percent", 9000, enum.DiscountKindPercentage, 0, 0},
		{"negative base floors down", -1050, enum.DiscountKindPercentage, 10, -105},
		{"negative base rounds toward minus infinity", -1055, enum.DiscountKindPercentage, 10, -106},
		{"fixed", 9000, enum.DiscountKindFixed, 500, 500},
		{"fixed exceeds base", 300, enum.DiscountKindFixed, 500, 500},
		{"unknown kind", 9000, enum.DiscountKind("other"), 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DiscountAmount(tt.base, tt.kind, tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := DiscountAmount(math.MaxInt64, enum.DiscountKindPercentage, 10)
	assert.False(t, ok)
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	c := testCatalog()
	var sel Selection
	sel.Contents[0] = NameRef("カット-1")
	sel.Contents[1] = NameRef("Mカラー-3")
	sel.TreatmentDiscount = NameRef("クーポン割引-1")
	sel.Products[0] = ProductSlot{Product: NameRef("シャンプー-1"), Quantity: 2}

	q := Calculate(c, sel)

	assert.Equal(t, int64(9000), q.TreatmentFee)
	assert.Equal(t, int64(900), q.TreatmentDiscountAmount)
	assert.Equal(t, int64(4000), q.RetailFee)
	assert.Equal(t, int64(0), q.RetailDiscountAmount)
	assert.Equal(t, int64(12100), q.TotalAmount)
	assert.False(t, q.Overflow)

	require.Len(t, q.MenuLines, 2)
	assert.Equal(t, MenuLine{Slot: 1, MenuID: 1, Name: "カット", Price: price(3000)}, q.MenuLines[0])
	assert.Equal(t, MenuLine{Slot: 2, MenuID: 3, Name: "Mカラー", Price: price(6000)}, q.MenuLines[1])

	require.Len(t, q.RetailLines, 1)
	assert.Equal(t, RetailLine{Slot: 1, ProductID: 1, Name: "シャンプー", UnitPrice: price(2000), Quantity: 2, Subtotal: 4000}, q.RetailLines[0])

	require.NotNil(t, q.TreatmentDiscount)
	assert.Equal(t, "クーポン割引", q.TreatmentDiscount.Name)
	assert.Nil(t, q.RetailDiscount)

	t.Run("clearing a content slot recomputes from the remaining slots", func(t *testing.T) {
		next, err := Reduce(sel, Event{Type: EventClearContent, Slot: 1})
		require.NoError(t, err)

		q := Calculate(c, next)
		assert.Equal(t, int64(6000), q.TreatmentFee)
		assert.Equal(t, int64(600), q.TreatmentDiscountAmount)
		assert.Equal(t, int64(9400), q.TotalAmount)
	})

	t.Run("input selection is not modified", func(t *testing.T) {
		assert.Equal(t, NameRef("カット-1"), sel.Contents[0])
	})
}

func TestCalculate_ResolvesByID(t *testing.T) {
	c := testCatalog()
	var sel Selection
	sel.Contents[0] = Ref{ID: 3, Name: "stale label"}
	sel.Products[1] = ProductSlot{Product: Ref{ID: 2}, Quantity: 3}
	sel.RetailDiscount = Ref{ID: 3}

	q := Calculate(c, sel)
	assert.Equal(t, int64(6000), q.TreatmentFee)
	assert.Equal(t, int64(2400), q.RetailFee)
	assert.Equal(t, int64(500), q.RetailDiscountAmount)
	assert.Equal(t, int64(7900), q.TotalAmount)
	require.Len(t, q.MenuLines, 1)
	assert.Equal(t, "Mカラー", q.MenuLines[0].Name)
	assert.Equal(t, 2, q.RetailLines[0].Slot)
}

func TestCalculate_EdgeCases(t *testing.T) {
	c := testCatalog()

	t.Run("empty selection", func(t *testing.T) {
		q := Calculate(c, Selection{})
		assert.Zero(t, q.TreatmentFee)
		assert.Zero(t, q.RetailFee)
		assert.Zero(t, q.TotalAmount)
		assert.Empty(t, q.MenuLines)
		assert.Empty(t, q.RetailLines)
	})

	t.Run("unresolved references contribute zero", func(t *testing.T) {
		var sel Selection
		sel.Contents[0] = NameRef("パーマ")
		sel.Contents[1] = NameRef("カット")
		sel.Products[0] = ProductSlot{Product: NameRef("ドライヤー"), Quantity: 1}
		sel.TreatmentDiscount = NameRef("季節割引")

		q := Calculate(c, sel)
		assert.Equal(t, int64(3000), q.TreatmentFee)
		assert.Zero(t, q.TreatmentDiscountAmount)
		assert.Zero(t, q.RetailFee)
		assert.Equal(t, int64(3000), q.TotalAmount)
		require.Len(t, q.MenuLines, 2)
		assert.Nil(t, q.MenuLines[0].Price)
		assert.Equal(t, "パーマ", q.MenuLines[0].Name)
		assert.Nil(t, q.TreatmentDiscount)
	})

	t.Run("product without quantity counts once", func(t *testing.T) {
		var sel Selection
		sel.Products[0] = ProductSlot{Product: NameRef("ブラシ")}
		q := Calculate(c, sel)
		assert.Equal(t, int64(800), q.RetailFee)
	})

	t.Run("quantity without product counts nothing", func(t *testing.T) {
		var sel Selection
		sel.Products[0] = ProductSlot{Quantity: 4}
		q := Calculate(c, sel)
		assert.Zero(t, q.RetailFee)
		assert.Empty(t, q.RetailLines)
	})

	t.Run("negative quantity passes through", func(t *testing.T) {
		var sel Selection
		sel.Products[0] = ProductSlot{Product: NameRef("ブラシ"), Quantity: -1}
		q := Calculate(c, sel)
		assert.Equal(t, int64(-800), q.RetailFee)
		assert.Equal(t, int64(-800), q.TotalAmount)
	})

	t.Run("fixed discount larger than fee makes total negative", func(t *testing.T) {
		var sel Selection
		sel.Contents[0] = NameRef("前髪カット")
		sel.TreatmentDiscount = NameRef("初回割引")
		q := Calculate(c, sel)
		assert.Equal(t, int64(1000), q.TreatmentFee)
		assert.Equal(t, int64(1000), q.TreatmentDiscountAmount)
		assert.Zero(t, q.TotalAmount)

		sel.TreatmentDiscount = NameRef("初回割引")
		sel.Contents[0] = Ref{}
		q = Calculate(c, sel)
		assert.Equal(t, int64(1000), q.TreatmentDiscountAmount)
		assert.Equal(t, int64(-1000), q.TotalAmount)
	})

	t.Run("fixed discount on an empty side still applies", func(t *testing.T) {
		var sel Selection
		sel.Contents[0] = NameRef("カット")
		sel.RetailDiscount = NameRef("固定割引")
		q := Calculate(c, sel)
		assert.Equal(t, int64(500), q.RetailDiscountAmount)
		assert.Equal(t, int64(2500), q.TotalAmount)
	})

	t.Run("overflow zeroes every derived amount", func(t *testing.T) {
		huge := NewCatalog(nil, []Item{{ID: 1, Name: "金", Price: price(math.MaxInt64 / 2), Active: true}}, nil)
		var sel Selection
		sel.Products[0] = ProductSlot{Product: NameRef("金"), Quantity: 3}
		q := Calculate(huge, sel)
		assert.True(t, q.Overflow)
		assert.Zero(t, q.TreatmentFee)
		assert.Zero(t, q.TreatmentDiscountAmount)
		assert.Zero(t, q.RetailFee)
		assert.Zero(t, q.RetailDiscountAmount)
		assert.Zero(t, q.TotalAmount)
	})
}

func TestCalculate_Deterministic(t *testing.T) {
	c := testCatalog()
	var sel Selection
	sel.Contents[2] = NameRef("カット")
	sel.Contents[7] = NameRef("ヘッドスパ-9")
	sel.Products[2] = ProductSlot{Product: NameRef("シャンプー"), Quantity: 1}
	sel.TreatmentDiscount = NameRef("会員割引")
	sel.RetailDiscount = NameRef("クーポン割引")

	first := Calculate(c, sel)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Calculate(c, sel))
	}
	assert.Equal(t, int64(4800), first.TreatmentFee)
	assert.Equal(t, int64(720), first.TreatmentDiscountAmount)
	assert.Equal(t, int64(200), first.RetailDiscountAmount)
	assert.Equal(t,
		(first.TreatmentFee-first.TreatmentDiscountAmount)+(first.RetailFee-first.RetailDiscountAmount),
		first.TotalAmount)
}
