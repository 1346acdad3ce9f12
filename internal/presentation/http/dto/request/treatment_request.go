package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/pricing"
)

// SelectionRequest is the priced part of a treatment form. contents holds up
// to 8 menu slots and products up to 3 retail slots; a reference is either an
// id or a display name.
type SelectionRequest struct {
	Contents          []pricing.Ref         `json:"contents"`
	Products          []pricing.ProductSlot `json:"products"`
	TreatmentDiscount pricing.Ref           `json:"treatment_discount"`
	RetailDiscount    pricing.Ref           `json:"retail_discount"`
}

// TreatmentRequest represents a treatment record. Dates use YYYY-MM-DD and
// times HH:MM.
type TreatmentRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" binding:"required"`
	TreatmentDate string    `json:"treatment_date" binding:"required"`
	TreatmentTime *string   `json:"treatment_time" binding:"omitempty,len=5"`
	StylistID     *uint     `json:"stylist_id"`
	StylistName   string    `json:"stylist_name" binding:"max=255"`
	SelectionRequest

	StyleMemo           *string `json:"style_memo"`
	UsedChemicals       *string `json:"used_chemicals"`
	Solution1Time       *string `json:"solution1_time" binding:"omitempty,max=50"`
	Solution2Time       *string `json:"solution2_time" binding:"omitempty,max=50"`
	ColorTime1          *string `json:"color_time1" binding:"omitempty,max=50"`
	ColorTime2          *string `json:"color_time2" binding:"omitempty,max=50"`
	OtherDetails        *string `json:"other_details"`
	Notes               *string `json:"notes"`
	ConversationContent *string `json:"conversation_content"`
	PaymentMethodID     *uint   `json:"payment_method_id"`
	PaymentMethod       *string `json:"payment_method" binding:"omitempty,max=255"`
	NextAppointmentDate *string `json:"next_appointment_date"`
	NextAppointmentTime *string `json:"next_appointment_time" binding:"omitempty,len=5"`
}

// QuoteRequest prices a selection after applying the given edits in order
type QuoteRequest struct {
	SelectionRequest
	Events []pricing.Event `json:"events" binding:"omitempty,dive"`
}
