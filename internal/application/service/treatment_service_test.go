package service

import (
	"testing"
	"time"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/pricing"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, 422, appErr.Code)
	require.NotEmpty(t, appErr.Errors)
	assert.Equal(t, field, appErr.Errors[0].Field)
}

func TestCreateTreatment_PricesOnServer(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "山田花子")

	tr := env.createTreatment(t, referenceTreatment(customer))

	assert.Equal(t, int64(9000), tr.TreatmentFee)
	assert.Equal(t, int64(900), tr.TreatmentDiscountAmount)
	assert.Equal(t, int64(4000), tr.RetailFee)
	assert.Equal(t, int64(0), tr.RetailDiscountAmount)
	assert.Equal(t, int64(12100), tr.TotalAmount)
	require.NotNil(t, tr.TreatmentDiscountType)
	assert.Equal(t, "クーポン割引", *tr.TreatmentDiscountType)
	assert.NotNil(t, tr.TreatmentDiscountTypeID)

	require.Len(t, tr.MenuLines, 2)
	assert.Equal(t, "カット", tr.MenuLines[0].Name)
	assert.Equal(t, 1, tr.MenuLines[0].Slot)
	assert.Equal(t, int64(3000), *tr.MenuLines[0].Price)
	assert.Equal(t, "Mカラー", tr.MenuLines[1].Name)

	require.Len(t, tr.ProductLines, 1)
	assert.Equal(t, int64(2), tr.ProductLines[0].Quantity)
	assert.Equal(t, int64(4000), tr.ProductLines[0].Subtotal)

	assert.Equal(t, "下井優太", tr.StylistName)
	assert.NotNil(t, tr.StylistID, "stylist name matched against the staff master")
	require.NotNil(t, tr.Customer)
	assert.Equal(t, "山田花子", tr.Customer.Name)
}

func TestCreateTreatment_LegacyNameSuffix(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "佐藤")

	in := referenceTreatment(customer)
	in.StylistName = "田中花子-2"
	in.Contents = []pricing.Ref{{Name: "カット-1"}, {}, {Name: "ヘッドスパ"}}
	tr := env.createTreatment(t, in)

	assert.Equal(t, "田中花子", tr.StylistName)
	require.Len(t, tr.MenuLines, 2)
	assert.Equal(t, 3, tr.MenuLines[1].Slot, "blank slots keep their position")
	assert.Equal(t, int64(4500), tr.TreatmentFee)
}

func TestCreateTreatment_UnknownEntriesContributeNothing(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "鈴木")

	in := referenceTreatment(customer)
	in.Contents = []pricing.Ref{{Name: "存在しないメニュー"}, {Name: "カット"}}
	in.Products = nil
	in.TreatmentDiscount = pricing.Ref{Name: "存在しない割引"}
	tr := env.createTreatment(t, in)

	assert.Equal(t, int64(3000), tr.TreatmentFee)
	assert.Zero(t, tr.TreatmentDiscountAmount)
	assert.Nil(t, tr.TreatmentDiscountType)
	require.Len(t, tr.MenuLines, 2)
	assert.Nil(t, tr.MenuLines[0].Price)
	assert.Nil(t, tr.MenuLines[0].MenuID)
}

func TestCreateTreatment_Validation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "高橋")

	tests := []struct {
		name   string
		mutate func(in *TreatmentInput)
		field  string
	}{
		{"too many contents", func(in *TreatmentInput) { in.Contents = make([]pricing.Ref, 9) }, "contents"},
		{"too many products", func(in *TreatmentInput) { in.Products = make([]pricing.ProductSlot, 4) }, "products"},
		{"missing date", func(in *TreatmentInput) { in.TreatmentDate = time.Time{} }, "treatment_date"},
		{"missing stylist", func(in *TreatmentInput) { in.StylistName = "  " }, "stylist_name"},
		{"unknown stylist id", func(in *TreatmentInput) { id := uint(999); in.StylistID = &id }, "stylist_id"},
		{"unknown customer", func(in *TreatmentInput) { in.CustomerID = entity.Customer{}.ID }, "customer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceTreatment(customer)
			tt.mutate(&in)
			_, err := env.treatments.CreateTreatment(env.ctx, &CreateTreatmentInput{UserID: env.owner.ID, TreatmentInput: in})
			requireValidation(t, err, tt.field)
		})
	}
}

func TestUpdateTreatment_Reprices(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "伊藤")
	tr := env.createTreatment(t, referenceTreatment(customer))

	in := referenceTreatment(customer)
	in.Contents = []pricing.Ref{{}, {Name: "Mカラー"}}
	in.Products = nil
	in.TreatmentDiscount = pricing.Ref{Name: "固定割引"}
	in.PaymentMethod = strPtr("現金")

	updated, err := env.treatments.UpdateTreatment(env.ctx, &UpdateTreatmentInput{ID: tr.ID, TreatmentInput: in})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), updated.TreatmentFee)
	assert.Equal(t, int64(500), updated.TreatmentDiscountAmount)
	assert.Zero(t, updated.RetailFee)
	assert.Equal(t, int64(5500), updated.TotalAmount)
	require.Len(t, updated.MenuLines, 1)
	assert.Equal(t, 2, updated.MenuLines[0].Slot)
	assert.Empty(t, updated.ProductLines)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, "現金", *updated.PaymentMethod)

	_, err = env.treatments.UpdateTreatment(env.ctx, &UpdateTreatmentInput{ID: entity.Treatment{}.ID, TreatmentInput: in})
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestSavedTreatmentKeepsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "渡辺")
	tr := env.createTreatment(t, referenceTreatment(customer))

	menus, err := env.masters.TreatmentMenus.List(env.ctx, false)
	require.NoError(t, err)
	price := int64(3500)
	_, err = env.masterSvc.Update(env.ctx, entity.MasterTreatmentMenus, menus[0].ID, &MasterInput{Price: &price})
	require.NoError(t, err)

	saved, err := env.treatments.GetTreatment(env.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12100), saved.TotalAmount, "stored amounts do not follow later price changes")
	assert.Equal(t, int64(3000), *saved.MenuLines[0].Price)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.treatments.Quote(env.ctx, &QuoteInput{
		SelectionInput: SelectionInput{
			Contents: []pricing.Ref{{Name: "カット"}, {Name: "Mカラー"}},
		},
		Events: []pricing.Event{
			{Type: pricing.EventSetTreatmentDiscount, Ref: pricing.Ref{Name: "クーポン割引"}},
			{Type: pricing.EventSetProduct, Slot: 1, Ref: pricing.Ref{Name: "シャンプー"}},
			{Type: pricing.EventSetQuantity, Slot: 1, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12100), out.Quote.TotalAmount)
	assert.Equal(t, "シャンプー", out.Selection.Products[0].Product.Name)

	t.Run("clearing a slot recomputes from the rest", func(t *testing.T) {
		out, err := env.treatments.Quote(env.ctx, &QuoteInput{
			SelectionInput: SelectionInput{Contents: []pricing.Ref{{Name: "カット"}, {Name: "Mカラー"}}},
			Events:         []pricing.Event{{Type: pricing.EventClearContent, Slot: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6000), out.Quote.TreatmentFee)
	})

	t.Run("invalid event", func(t *testing.T) {
		_, err := env.treatments.Quote(env.ctx, &QuoteInput{
			Events: []pricing.Event{{Type: pricing.EventSetContent, Slot: 9}},
		})
		requireValidation(t, err, "events")
	})
}

func TestListTreatments(t *testing.T) {
	env := newTestEnv(t)
	a := env.createCustomer(t, "A")
	b := env.createCustomer(t, "B")

	for i, day := range []int{1, 10, 20} {
		in := referenceTreatment(a)
		in.TreatmentDate = time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC)
		if i == 2 {
			in.StylistName = "佐藤太郎"
		}
		env.createTreatment(t, in)
	}
	env.createTreatment(t, referenceTreatment(b))

	page := pagination.PaginationParams{Page: 1, PerPage: 15}

	all, err := env.treatments.ListTreatments(env.ctx, &ListTreatmentsInput{PaginationParams: page})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Pagination.Total)

	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	ranged, err := env.treatments.ListTreatments(env.ctx, &ListTreatmentsInput{
		CustomerID:       &a.ID,
		From:             &from,
		To:               &to,
		PaginationParams: page,
	})
	require.NoError(t, err)
	require.Len(t, ranged.Items, 2, "to is inclusive")
	assert.Equal(t, 20, ranged.Items[0].TreatmentDate.Day(), "most recent first")

	byStylist, err := env.treatments.ListTreatments(env.ctx, &ListTreatmentsInput{Stylist: "佐藤太郎", PaginationParams: page})
	require.NoError(t, err)
	assert.Len(t, byStylist.Items, 1)

	_, err = env.treatments.ListTreatments(env.ctx, &ListTreatmentsInput{From: &to, To: &from, PaginationParams: page})
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
