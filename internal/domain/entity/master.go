package entity

import (
	"time"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"gorm.io/gorm"
)

// MasterKind names one master data collection
type MasterKind string

const (
	MasterStaff           MasterKind = "staff"
	MasterTreatmentMenus  MasterKind = "treatment-menus"
	MasterRetailProducts  MasterKind = "retail-products"
	MasterReferralSources MasterKind = "referral-sources"
	MasterPaymentMethods  MasterKind = "payment-methods"
	MasterDiscountTypes   MasterKind = "discount-types"
)

// MasterKinds lists every master data collection in display order
var MasterKinds = []MasterKind{
	MasterStaff,
	MasterTreatmentMenus,
	MasterRetailProducts,
	MasterReferralSources,
	MasterPaymentMethods,
	MasterDiscountTypes,
}

// IsValid reports whether k names a known collection
func (k MasterKind) IsValid() bool {
	for _, known := range MasterKinds {
		if k == known {
			return true
		}
	}
	return false
}

// PricesCatalog reports whether entries of k feed the pricing catalog
func (k MasterKind) PricesCatalog() bool {
	return k == MasterTreatmentMenus || k == MasterRetailProducts || k == MasterDiscountTypes
}

// Master holds the columns shared by every master data table
type Master struct {
	ID        uint           `gorm:"primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null;index" json:"name"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Staff is a stylist who can be assigned to a treatment
type Staff struct {
	Master
}

func (Staff) TableName() string {
	return "staff"
}

// TreatmentMenu is a priced service on the salon menu
type TreatmentMenu struct {
	Master
	Category *string `gorm:"size:255;index" json:"category,omitempty"`
	Price    *int64  `json:"price,omitempty"`
}

func (TreatmentMenu) TableName() string {
	return "treatment_menus"
}

// RetailProduct is a product sold over the counter
type RetailProduct struct {
	Master
	Category *string `gorm:"size:255" json:"category,omitempty"`
	Price    *int64  `json:"price,omitempty"`
	Quantity int     `gorm:"default:0" json:"quantity"`
}

func (RetailProduct) TableName() string {
	return "retail_products"
}

// ReferralSource is how a customer heard of the salon
type ReferralSource struct {
	Master
}

func (ReferralSource) TableName() string {
	return "referral_sources"
}

// PaymentMethod is a way a treatment can be paid for
type PaymentMethod struct {
	Master
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// DiscountType is a named discount applicable to either side of a treatment bill
type DiscountType struct {
	Master
	DiscountType  enum.DiscountKind `gorm:"size:20;not null;default:'percentage'" json:"discount_type"`
	DiscountValue int64             `gorm:"not null;default:0" json:"discount_value"`
}

func (DiscountType) TableName() string {
	return "discount_types"
}
