package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer is a salon client and their intake sheet
type Customer struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Furigana         *string         `gorm:"size:255;index" json:"furigana,omitempty"`
	Name             string          `gorm:"size:255;not null;index" json:"name"`
	Gender           *enum.Gender    `gorm:"size:20" json:"gender,omitempty"`
	Phone            *string         `gorm:"size:50;index" json:"phone,omitempty"`
	EmergencyContact *string         `gorm:"size:255" json:"emergency_contact,omitempty"`
	DateOfBirth      *time.Time      `gorm:"type:date" json:"date_of_birth,omitempty"`
	Age              *int            `json:"age,omitempty"`
	Occupation       *string         `gorm:"size:255" json:"occupation,omitempty"`
	PostalCode       *string         `gorm:"size:20" json:"postal_code,omitempty"`
	Address          *string         `gorm:"type:text" json:"address,omitempty"`
	VisitingFamily   *string         `gorm:"type:text" json:"visiting_family,omitempty"`
	Email            *string         `gorm:"size:255" json:"email,omitempty"`
	BloodType        *enum.BloodType `gorm:"size:10" json:"blood_type,omitempty"`
	Allergies        *string         `gorm:"type:text" json:"allergies,omitempty"`
	MedicalHistory   *string         `gorm:"type:text" json:"medical_history,omitempty"`
	Notes            *string         `gorm:"type:text" json:"notes,omitempty"`
	ReferralSource1  *string         `gorm:"size:255" json:"referral_source1,omitempty"`
	ReferralSource2  *string         `gorm:"size:255" json:"referral_source2,omitempty"`
	ReferralSource3  *string         `gorm:"size:255" json:"referral_source3,omitempty"`
	ReferralDetails  *string         `gorm:"type:text" json:"referral_details,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"-"`
	Treatments []Treatment `gorm:"foreignKey:CustomerID" json:"treatments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
