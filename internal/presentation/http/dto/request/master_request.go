package request

import (
	"bytes"
	"encoding/json"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

// MasterRequest is the body of a master data create or update. Fields that do
// not apply to the collection are ignored.
type MasterRequest struct {
	Name          *string            `json:"name" binding:"omitempty,max=255"`
	IsActive      *bool              `json:"is_active"`
	Category      *string            `json:"category" binding:"omitempty,max=100"`
	Price         NullableInt64      `json:"price"`
	Quantity      *int               `json:"quantity" binding:"omitempty,min=0"`
	DiscountType  *enum.DiscountKind `json:"discount_type"`
	DiscountValue *int64             `json:"discount_value"`
}

// NullableInt64 tells an absent field apart from an explicit null.
// "price": null leaves Set true with a nil Value.
type NullableInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present
func (n *NullableInt64) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Cleared reports an explicit null
func (n NullableInt64) Cleared() bool {
	return n.Set && n.Value == nil
}
