package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Treatment is one visit of a customer with its service details and bill
type Treatment struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TreatmentDate       time.Time  `gorm:"type:date;not null;index" json:"treatment_date"`
	TreatmentTime       *string    `gorm:"size:5" json:"treatment_time,omitempty"`
	StylistID           *uint      `gorm:"index" json:"stylist_id,omitempty"`
	StylistName         string     `gorm:"size:255;not null;index" json:"stylist_name"`
	StyleMemo           *string    `gorm:"type:text" json:"style_memo,omitempty"`
	UsedChemicals       *string    `gorm:"type:text" json:"used_chemicals,omitempty"`
	Solution1Time       *string    `gorm:"size:50" json:"solution1_time,omitempty"`
	Solution2Time       *string    `gorm:"size:50" json:"solution2_time,omitempty"`
	ColorTime1          *string    `gorm:"size:50" json:"color_time1,omitempty"`
	ColorTime2          *string    `gorm:"size:50" json:"color_time2,omitempty"`
	OtherDetails        *string    `gorm:"type:text" json:"other_details,omitempty"`
	Notes               *string    `gorm:"type:text" json:"notes,omitempty"`
	ConversationContent *string    `gorm:"type:text" json:"conversation_content,omitempty"`
	PaymentMethodID     *uint      `json:"payment_method_id,omitempty"`
	PaymentMethod       *string    `gorm:"size:255" json:"payment_method,omitempty"`
	NextAppointmentDate *time.Time `gorm:"type:date" json:"next_appointment_date,omitempty"`
	NextAppointmentTime *string    `gorm:"size:5" json:"next_appointment_time,omitempty"`

	// Pricing snapshot, always written from the calculator
	TreatmentFee            int64   `gorm:"not null;default:0" json:"treatment_fee"`
	TreatmentDiscountTypeID *uint   `json:"treatment_discount_type_id,omitempty"`
	TreatmentDiscountType   *string `gorm:"size:255" json:"treatment_discount_type,omitempty"`
	TreatmentDiscountAmount int64   `gorm:"not null;default:0" json:"treatment_discount_amount"`
	RetailFee               int64   `gorm:"not null;default:0" json:"retail_fee"`
	RetailDiscountTypeID    *uint   `json:"retail_discount_type_id,omitempty"`
	RetailDiscountType      *string `gorm:"size:255" json:"retail_discount_type,omitempty"`
	RetailDiscountAmount    int64   `gorm:"not null;default:0" json:"retail_discount_amount"`
	TotalAmount             int64   `gorm:"not null;default:0" json:"total_amount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer     *Customer              `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	User         User                   `gorm:"foreignKey:UserID" json:"-"`
	MenuLines    []TreatmentMenuLine    `gorm:"foreignKey:TreatmentID" json:"menu_lines"`
	ProductLines []TreatmentProductLine `gorm:"foreignKey:TreatmentID" json:"product_lines"`
	Images       []TreatmentImage       `gorm:"foreignKey:TreatmentID" json:"images,omitempty"`
}

// BeforeCreate generates a UUID before creating a new treatment
func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Treatment model
func (Treatment) TableName() string {
	return "treatments"
}

// TreatmentMenuLine is one of the eight service slots of a treatment
type TreatmentMenuLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TreatmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"treatment_id"`
	Slot        int       `gorm:"not null" json:"slot"`
	MenuID      *uint     `json:"menu_id,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Price       *int64    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *TreatmentMenuLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (TreatmentMenuLine) TableName() string {
	return "treatment_menu_lines"
}

// TreatmentProductLine is one of the three retail slots of a treatment.
// UnitPrice is the price at the time of the visit.
type TreatmentProductLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TreatmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"treatment_id"`
	Slot        int       `gorm:"not null" json:"slot"`
	ProductID   *uint     `json:"product_id,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	UnitPrice   *int64    `json:"unit_price"`
	Quantity    int64     `gorm:"not null;default:0" json:"quantity"`
	Subtotal    int64     `gorm:"not null;default:0" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *TreatmentProductLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (TreatmentProductLine) TableName() string {
	return "treatment_product_lines"
}

// TreatmentImage is a photo attached to a treatment
type TreatmentImage struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TreatmentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"treatment_id"`
	Filename         string    `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	ImageURL         string    `gorm:"size:512;not null" json:"image_url"`
	OriginalFilename *string   `gorm:"size:255" json:"original_filename,omitempty"`
	ContentType      string    `gorm:"size:100" json:"content_type"`
	Size             int64     `json:"size"`
	ImageOrder       int       `gorm:"default:0;index" json:"image_order"`
	CreatedAt        time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new image
func (i *TreatmentImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (TreatmentImage) TableName() string {
	return "treatment_images"
}
