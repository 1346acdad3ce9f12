package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BloodType is the ABO blood group recorded on a customer intake sheet
type BloodType string

const (
	BloodTypeA       BloodType = "A型"
	BloodTypeB       BloodType = "B型"
	BloodTypeO       BloodType = "O型"
	BloodTypeAB      BloodType = "AB型"
	BloodTypeUnknown BloodType = "不明"
)

func (b BloodType) String() string {
	return string(b)
}

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeA, BloodTypeB, BloodTypeO, BloodTypeAB, BloodTypeUnknown:
		return true
	}
	return false
}

func (b BloodType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(b))
}

func (b *BloodType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := BloodType(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown blood type %q", str)
	}
	*b = v
	return nil
}

func (b BloodType) Value() (driver.Value, error) {
	return string(b), nil
}

func (b *BloodType) Scan(value interface{}) error {
	if value == nil {
		*b = BloodTypeUnknown
		return nil
	}
	switch v := value.(type) {
	case string:
		*b = BloodType(v)
	case []byte:
		*b = BloodType(string(v))
	}
	return nil
}
