package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/printer"
	"github.com/sangkips/salon-api/pkg/utils"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer       printer.Printer
	treatmentRepo repository.TreatmentRepository
	printerType   string
	width         int
	header        entity.ReceiptHeader
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	treatmentRepo repository.TreatmentRepository,
	printerCfg config.PrinterConfig,
	salon config.SalonConfig,
) *PrinterService {
	return &PrinterService{
		printer:       p,
		treatmentRepo: treatmentRepo,
		printerType:   printerCfg.Type,
		width:         printerCfg.Width,
		header: entity.ReceiptHeader{
			StoreName: salon.Name,
			Address:   salon.Address,
			Phone:     salon.Phone,
		},
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint prints a sample receipt with the configured salon header
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:         s.header,
		ReceiptNo:      "TEST",
		Date:           time.Now().Format("2006/01/02 15:04"),
		TreatmentLines: []entity.ReceiptLine{{Name: "テスト印刷", Quantity: 1, UnitPrice: 0, Total: 0}},
	}

	if err := s.printer.Print(FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("failed to print test page: %w", err)
	}
	return receipt, nil
}

// PrintTreatmentReceipt prints the stored bill of a treatment. The receipt is
// returned even when printing fails so the caller can show it on screen.
func (s *PrinterService) PrintTreatmentReceipt(ctx context.Context, treatmentID uuid.UUID) (*entity.Receipt, error) {
	t, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	receipt := BuildReceipt(s.header, t)

	data := FormatReceipt(receipt, s.width)
	if err := s.printer.Print(data); err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("treatment_id", treatmentID.String()).Msg("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// BuildReceipt composes the printable bill of a treatment from its stored snapshot
func BuildReceipt(header entity.ReceiptHeader, t *entity.Treatment) *entity.Receipt {
	r := &entity.Receipt{
		Header:            header,
		ReceiptNo:         utils.GenerateReceiptNo(t.TreatmentDate, t.ID),
		Date:              t.TreatmentDate.Format("2006/01/02"),
		Stylist:           t.StylistName,
		TreatmentLines:    make([]entity.ReceiptLine, 0, len(t.MenuLines)),
		RetailLines:       make([]entity.ReceiptLine, 0, len(t.ProductLines)),
		TreatmentFee:      t.TreatmentFee,
		TreatmentDiscount: t.TreatmentDiscountAmount,
		RetailFee:         t.RetailFee,
		RetailDiscount:    t.RetailDiscountAmount,
		Total:             t.TotalAmount,
	}
	if t.TreatmentTime != nil {
		r.Date += " " + *t.TreatmentTime
	}
	if t.Customer != nil {
		r.Customer = t.Customer.Name
	}
	if t.PaymentMethod != nil {
		r.PaymentMethod = *t.PaymentMethod
	}
	if t.TreatmentDiscountType != nil {
		r.TreatmentDiscName = *t.TreatmentDiscountType
	}
	if t.RetailDiscountType != nil {
		r.RetailDiscName = *t.RetailDiscountType
	}
	if t.NextAppointmentDate != nil {
		r.NextAppointment = t.NextAppointmentDate.Format("2006/01/02")
		if t.NextAppointmentTime != nil {
			r.NextAppointment += " " + *t.NextAppointmentTime
		}
	}

	for _, l := range t.MenuLines {
		var price int64
		if l.Price != nil {
			price = *l.Price
		}
		r.TreatmentLines = append(r.TreatmentLines, entity.ReceiptLine{
			Name: l.Name, Quantity: 1, UnitPrice: price, Total: price,
		})
	}
	for _, l := range t.ProductLines {
		var unit int64
		if l.UnitPrice != nil {
			unit = *l.UnitPrice
		}
		r.RetailLines = append(r.RetailLines, entity.ReceiptLine{
			Name: l.Name, Quantity: l.Quantity, UnitPrice: unit, Total: l.Subtotal,
		})
	}
	return r
}

// Yen formats an amount the way it is printed: 12100 -> "12,100円"
func Yen(amount int64) string {
	neg := amount < 0
	digits := strconv.FormatInt(amount, 10)
	if neg {
		digits = digits[1:]
	}

	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}

	s := string(out) + "円"
	if neg {
		s = "-" + s
	}
	return s
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewJapaneseDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("TEL %s", r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("領収書番号", r.ReceiptNo).
		KeyValue("日時", r.Date)

	if r.Customer != "" {
		doc.KeyValue("お客様", r.Customer+" 様")
	}
	if r.Stylist != "" {
		doc.KeyValue("担当", r.Stylist)
	}

	doc.Separator('-')

	if len(r.TreatmentLines) > 0 {
		doc.Text("【施術】")
		for _, item := range r.TreatmentLines {
			doc.ItemLine(item.Quantity, item.Name, Yen(item.Total))
		}
		doc.KeyValue("施術料金", Yen(r.TreatmentFee))
		if r.TreatmentDiscount != 0 {
			doc.KeyValue(discountLabel(r.TreatmentDiscName), Yen(-r.TreatmentDiscount))
		}
	}

	if len(r.RetailLines) > 0 {
		doc.Text("【店販】")
		for _, item := range r.RetailLines {
			doc.ItemLine(item.Quantity, item.Name, Yen(item.Total))
			if item.Quantity > 1 {
				doc.TextF("  @%s", Yen(item.UnitPrice))
			}
		}
		doc.KeyValue("店販料金", Yen(r.RetailFee))
		if r.RetailDiscount != 0 {
			doc.KeyValue(discountLabel(r.RetailDiscName), Yen(-r.RetailDiscount))
		}
	}

	doc.Separator('=')

	doc.SetBold(true).
		KeyValue("合計", Yen(r.Total)).
		SetBold(false)

	if r.PaymentMethod != "" {
		doc.KeyValue("お支払い", r.PaymentMethod)
	}

	doc.Separator('-')

	if r.NextAppointment != "" {
		doc.KeyValue("次回ご予約", r.NextAppointment)
	}

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("ご来店ありがとうございました").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func discountLabel(name string) string {
	if name == "" {
		return "割引"
	}
	return "割引(" + name + ")"
}
