package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Gender is the gender recorded on a customer intake sheet
type Gender string

const (
	GenderMale   Gender = "男性"
	GenderFemale Gender = "女性"
	GenderOther  Gender = "その他"
)

func (g Gender) String() string {
	return string(g)
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(g))
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := Gender(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown gender %q", str)
	}
	*g = v
	return nil
}

func (g Gender) Value() (driver.Value, error) {
	return string(g), nil
}

func (g *Gender) Scan(value interface{}) error {
	if value == nil {
		*g = GenderOther
		return nil
	}
	switch v := value.(type) {
	case string:
		*g = Gender(v)
	case []byte:
		*g = Gender(string(v))
	}
	return nil
}
