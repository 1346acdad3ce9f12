package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptNo builds a receipt number from the visit date and the treatment id
func GenerateReceiptNo(date time.Time, treatmentID uuid.UUID) string {
	return "R" + date.Format("20060102") + "-" + strings.ToUpper(treatmentID.String()[:8])
}
