package entity

// ReceiptHeader holds the salon header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptLine is a single priced line on a receipt. Amounts are in yen.
type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// Receipt is a printable view of a treatment bill.
// It is not persisted; it is composed from the treatment at print time.
type Receipt struct {
	Header            ReceiptHeader `json:"header"`
	ReceiptNo         string        `json:"receipt_no"`
	Date              string        `json:"date"`
	Stylist           string        `json:"stylist,omitempty"`
	Customer          string        `json:"customer,omitempty"`
	PaymentMethod     string        `json:"payment_method,omitempty"`
	TreatmentLines    []ReceiptLine `json:"treatment_lines"`
	RetailLines       []ReceiptLine `json:"retail_lines"`
	TreatmentFee      int64         `json:"treatment_fee"`
	TreatmentDiscount int64         `json:"treatment_discount"`
	TreatmentDiscName string        `json:"treatment_discount_name,omitempty"`
	RetailFee         int64         `json:"retail_fee"`
	RetailDiscount    int64         `json:"retail_discount"`
	RetailDiscName    string        `json:"retail_discount_name,omitempty"`
	Total             int64         `json:"total"`
	NextAppointment   string        `json:"next_appointment,omitempty"`
}
