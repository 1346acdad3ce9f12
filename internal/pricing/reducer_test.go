package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_Products(t *testing.T) {
	sel, err := Reduce(Selection{}, Event{Type: EventSetProduct, Slot: 2, Ref: NameRef("シャンプー")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sel.Products[1].Quantity)

	sel, err = Reduce(sel, Event{Type: EventSetQuantity, Slot: 2, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), sel.Products[1].Quantity)

	// Switching the product keeps a quantity that was already chosen
	sel, err = Reduce(sel, Event{Type: EventSetProduct, Slot: 2, Ref: NameRef("ブラシ")})
	require.NoError(t, err)
	assert.Equal(t, ProductSlot{Product: NameRef("ブラシ"), Quantity: 4}, sel.Products[1])

	sel, err = Reduce(sel, Event{Type: EventClearProduct, Slot: 2})
	require.NoError(t, err)
	assert.Equal(t, ProductSlot{}, sel.Products[1])
}

func TestReduce_Discounts(t *testing.T) {
	events := []Event{
		{Type: EventSetTreatmentDiscount, Ref: NameRef("会員割引")},
		{Type: EventSetRetailDiscount, Ref: Ref{ID: 3}},
		{Type: EventClearTreatmentDiscount},
	}
	sel, err := Replay(Selection{}, events)
	require.NoError(t, err)
	assert.True(t, sel.TreatmentDiscount.IsEmpty())
	assert.Equal(t, Ref{ID: 3}, sel.RetailDiscount)

	sel, err = Reduce(sel, Event{Type: EventClearRetailDiscount})
	require.NoError(t, err)
	assert.True(t, sel.RetailDiscount.IsEmpty())
}

func TestReduce_Errors(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want error
	}{
		{"content slot zero", Event{Type: EventSetContent, Slot: 0}, ErrInvalidSlot},
		{"content slot nine", Event{Type: EventClearContent, Slot: 9}, ErrInvalidSlot},
		{"product slot four", Event{Type: EventSetProduct, Slot: 4}, ErrInvalidSlot},
		{"unknown type", Event{Type: "rename"}, ErrUnknownEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce(Selection{}, tt.ev)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReplay_StopsAtFirstInvalidEvent(t *testing.T) {
	events := []Event{
		{Type: EventSetContent, Slot: 1, Ref: NameRef("カット")},
		{Type: EventSetContent, Slot: 12, Ref: NameRef("Mカラー")},
		{Type: EventSetContent, Slot: 2, Ref: NameRef("Mカラー")},
	}
	sel, err := Replay(Selection{}, events)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.Equal(t, NameRef("カット"), sel.Contents[0])
	assert.True(t, sel.Contents[1].IsEmpty())
}

func TestReplay_LastEditWins(t *testing.T) {
	c := testCatalog()
	events := []Event{
		{Type: EventSetContent, Slot: 1, Ref: NameRef("カット")},
		{Type: EventSetContent, Slot: 2, Ref: NameRef("Mカラー")},
		{Type: EventSetTreatmentDiscount, Ref: NameRef("クーポン割引")},
		{Type: EventSetProduct, Slot: 1, Ref: NameRef("シャンプー")},
		{Type: EventSetQuantity, Slot: 1, Quantity: 2},
		{Type: EventClearContent, Slot: 1},
		{Type: EventSetTreatmentDiscount, Ref: NameRef("固定割引")},
	}
	sel, err := Replay(Selection{}, events)
	require.NoError(t, err)

	q := Calculate(c, sel)
	assert.Equal(t, int64(6000), q.TreatmentFee)
	assert.Equal(t, int64(500), q.TreatmentDiscountAmount)
	assert.Equal(t, int64(4000), q.RetailFee)
	assert.Equal(t, int64(9500), q.TotalAmount)
}
