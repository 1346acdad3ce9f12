package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountKind represents how a discount type reduces a fee
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

func (k DiscountKind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known kinds
func (k DiscountKind) IsValid() bool {
	return k == DiscountKindPercentage || k == DiscountKindFixed
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	kind := DiscountKind(str)
	if !kind.IsValid() {
		return fmt.Errorf("unknown discount kind %q", str)
	}
	*k = kind
	return nil
}

func (k DiscountKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *DiscountKind) Scan(value interface{}) error {
	if value == nil {
		*k = DiscountKindPercentage
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = DiscountKind(v)
	case []byte:
		*k = DiscountKind(string(v))
	}
	return nil
}
