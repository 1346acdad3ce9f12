package request

import (
	"github.com/sangkips/salon-api/internal/domain/enum"
)

// CustomerRequest represents the customer intake sheet. On update only the
// fields present in the body change.
type CustomerRequest struct {
	Name             *string         `json:"name" binding:"omitempty,min=1,max=255"`
	Furigana         *string         `json:"furigana" binding:"omitempty,max=255"`
	Gender           *enum.Gender    `json:"gender"`
	Phone            *string         `json:"phone" binding:"omitempty,max=50"`
	EmergencyContact *string         `json:"emergency_contact" binding:"omitempty,max=255"`
	DateOfBirth      *string         `json:"date_of_birth"`
	Age              *int            `json:"age" binding:"omitempty,min=0,max=150"`
	Occupation       *string         `json:"occupation" binding:"omitempty,max=255"`
	PostalCode       *string         `json:"postal_code" binding:"omitempty,max=20"`
	Address          *string         `json:"address"`
	VisitingFamily   *string         `json:"visiting_family"`
	Email            *string         `json:"email" binding:"omitempty,max=255"`
	BloodType        *enum.BloodType `json:"blood_type"`
	Allergies        *string         `json:"allergies"`
	MedicalHistory   *string         `json:"medical_history"`
	Notes            *string         `json:"notes"`
	ReferralSource1  *string         `json:"referral_source1" binding:"omitempty,max=255"`
	ReferralSource2  *string         `json:"referral_source2" binding:"omitempty,max=255"`
	ReferralSource3  *string         `json:"referral_source3" binding:"omitempty,max=255"`
	ReferralDetails  *string         `json:"referral_details"`
}
