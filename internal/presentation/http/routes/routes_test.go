package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/infrastructure/database"
	"github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/storage"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/printer"
	"github.com/sangkips/salon-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router  *gin.Engine
	jwt     *utils.JWTManager
	printer *printer.MemoryPrinter
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{Email: "owner@salon.test", Password: "secret123"}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "salon-api", Port: "8080"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
		Printer:   config.PrinterConfig{Type: "usb", Width: 48},
		Salon:     config.SalonConfig{Name: "Salon"},
	}
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	treatmentRepo := repository.NewTreatmentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	masters := service.MasterRepositories{
		Staff:           repository.NewMasterRepository[entity.Staff](db),
		TreatmentMenus:  repository.NewMasterRepository[entity.TreatmentMenu](db),
		RetailProducts:  repository.NewMasterRepository[entity.RetailProduct](db),
		ReferralSources: repository.NewMasterRepository[entity.ReferralSource](db),
		PaymentMethods:  repository.NewMasterRepository[entity.PaymentMethod](db),
		DiscountTypes:   repository.NewMasterRepository[entity.DiscountType](db),
	}

	catalog := service.NewCatalogService(masters.TreatmentMenus, masters.RetailProducts, masters.DiscountTypes)
	treatments := service.NewTreatmentService(treatmentRepo, customerRepo, masters.Staff, masters.PaymentMethods, catalog, files)
	images := service.NewImageService(repository.NewTreatmentImageRepository(db), treatmentRepo, files, 1<<20)
	photos := service.NewPhotoUploadService(treatmentRepo, jwtManager, "http://salon.local:8080", "8080", 30*time.Minute)
	mem := &printer.MemoryPrinter{}

	h := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		User:      handler.NewUserHandler(service.NewUserService(userRepo, repository.NewRoleRepository(db), repository.NewPermissionRepository(db), masters.Staff)),
		Master:    handler.NewMasterHandler(service.NewMasterService(masters, treatmentRepo, catalog)),
		Customer:  handler.NewCustomerHandler(service.NewCustomerService(customerRepo, treatmentRepo, files)),
		Treatment: handler.NewTreatmentHandler(treatments, images, photos),
		Photo:     handler.NewPhotoHandler(photos, images),
		File:      handler.NewFileHandler(images),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepository(db))),
		Printer:   handler.NewPrinterHandler(service.NewPrinterService(mem, treatmentRepo, cfg.Printer, cfg.Salon)),
		System:    handler.NewSystemHandler(db, photos, cfg.App.Name),
	}

	srv := &testServer{
		router: Setup(h, &Deps{
			JWTManager:      jwtManager,
			Cfg:             cfg,
			IdempotencyRepo: repository.NewIdempotencyRepository(db),
			RateLimiter:     NewRateLimiter(cfg.RateLimit),
		}),
		jwt:     jwtManager,
		printer: mem,
	}

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "owner@salon.test", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	srv.token = login.Data.AccessToken
	return srv
}

func (s *testServer) request(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	if s.token != "" {
		headers = append(headers, "Authorization", "Bearer "+s.token)
	}
	return s.request(t, method, path, body, headers...)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

type created struct {
	ID          string `json:"id"`
	TotalAmount int64  `json:"total_amount"`
}

func (s *testServer) createCustomer(t *testing.T, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/customers", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c created
	decodeData(t, w, &c)
	return c.ID
}

func referenceBody(customerID string) map[string]any {
	return map[string]any{
		"customer_id":        customerID,
		"treatment_date":     "2024-03-15",
		"stylist_name":       "下井優太",
		"contents":           []map[string]any{{"name": "カット"}, {"name": "Mカラー"}},
		"products":           []map[string]any{{"product": map[string]any{"name": "シャンプー"}, "quantity": 2}},
		"treatment_discount": map[string]any{"name": "クーポン割引"},
		"payment_method":     "現金",
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := srv.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	srv := newTestServer(t)
	w := srv.request(t, http.MethodGet, "/api/v1/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStylistCannotWriteMasters(t *testing.T) {
	srv := newTestServer(t)
	token, err := srv.jwt.GenerateAccessToken(
		uuid.New(), "stylist@salon.test", []string{entity.RoleStylist},
		[]string{entity.PermissionManageCustomers, entity.PermissionManageTreatments},
	)
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	w := srv.request(t, http.MethodGet, "/api/v1/masters/treatment-menus", nil, auth...)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.request(t, http.MethodPost, "/api/v1/masters/treatment-menus", map[string]any{"name": "パーマ", "price": 8000}, auth...)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMasterRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/masters/treatment-menus", map[string]any{"name": "パーマ", "price": 8000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/v1/masters/treatment-menus?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menus []struct {
		Name  string `json:"name"`
		Price *int64 `json:"price"`
	}
	decodeData(t, w, &menus)
	assert.Equal(t, "パーマ", menus[len(menus)-1].Name)

	var menu struct {
		ID    uint   `json:"id"`
		Price *int64 `json:"price"`
	}
	decodeData(t, w, &menu)
	path := fmt.Sprintf("/api/v1/masters/treatment-menus/%d", menu.ID)

	// An absent price is left alone, an explicit null marks it undetermined
	w = srv.do(t, http.MethodPut, path, map[string]any{"name": "デジタルパーマ"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &menu)
	require.NotNil(t, menu.Price)
	assert.Equal(t, int64(8000), *menu.Price)

	w = srv.do(t, http.MethodPut, path, map[string]any{"price": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	menu.Price = nil
	decodeData(t, w, &menu)
	assert.Nil(t, menu.Price)

	w = srv.do(t, http.MethodPut, path, map[string]any{"price": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/masters/hair-colours", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/masters/staff", map[string]any{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCustomerCreateRequiresName(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodPost, "/api/v1/customers", map[string]any{"phone": "090-0000-0000"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/customers", map[string]any{"name": "山田", "date_of_birth": "1990/04/01"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCustomerListPaging(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"青木", "石田", "上野"} {
		srv.createCustomer(t, name)
	}

	var page struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		Pagination struct {
			NextCursor *string `json:"next_cursor"`
			PrevCursor *string `json:"prev_cursor"`
			HasNext    bool    `json:"has_next"`
			HasPrev    bool    `json:"has_prev"`
		} `json:"pagination"`
	}

	w := srv.do(t, http.MethodGet, "/api/v1/customers?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "青木", page.Items[0].Name)
	require.True(t, page.Pagination.HasNext)

	w = srv.do(t, http.MethodGet, "/api/v1/customers?limit=2&cursor="+url.QueryEscape(*page.Pagination.NextCursor), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "上野", page.Items[0].Name)

	w = srv.do(t, http.MethodGet, "/api/v1/customers?limit=2&direction=prev&cursor="+url.QueryEscape(*page.Pagination.PrevCursor), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "青木", page.Items[0].Name)
	assert.Equal(t, "石田", page.Items[1].Name)
	assert.False(t, page.Pagination.HasPrev)

	w = srv.do(t, http.MethodGet, "/api/v1/customers?page=two", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"events": []map[string]any{
			{"type": "set_content", "slot": 1, "ref": map[string]any{"name": "カット"}},
			{"type": "set_content", "slot": 2, "ref": map[string]any{"name": "Mカラー"}},
			{"type": "set_product", "slot": 1, "ref": map[string]any{"name": "シャンプー"}},
			{"type": "set_quantity", "slot": 1, "quantity": 2},
			{"type": "set_treatment_discount", "ref": map[string]any{"name": "クーポン割引"}},
		},
	}
	w := srv.do(t, http.MethodPost, "/api/v1/treatments/quote", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Quote struct {
			TreatmentFee            int64 `json:"treatment_fee"`
			TreatmentDiscountAmount int64 `json:"treatment_discount_amount"`
			RetailFee               int64 `json:"retail_fee"`
			TotalAmount             int64 `json:"total_amount"`
		} `json:"quote"`
	}
	decodeData(t, w, &out)
	assert.Equal(t, int64(9000), out.Quote.TreatmentFee)
	assert.Equal(t, int64(900), out.Quote.TreatmentDiscountAmount)
	assert.Equal(t, int64(4000), out.Quote.RetailFee)
	assert.Equal(t, int64(12100), out.Quote.TotalAmount)

	w = srv.do(t, http.MethodPost, "/api/v1/treatments/quote", map[string]any{
		"events": []map[string]any{{"type": "set_content", "slot": 9, "ref": map[string]any{"name": "カット"}}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTreatmentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	customerID := srv.createCustomer(t, "山田花子")

	// Client supplied totals are ignored
	body := referenceBody(customerID)
	body["total_amount"] = 1
	w := srv.do(t, http.MethodPost, "/api/v1/treatments", body, "Idempotency-Key", "visit-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tr created
	decodeData(t, w, &tr)
	assert.Equal(t, int64(12100), tr.TotalAmount)

	replay := srv.do(t, http.MethodPost, "/api/v1/treatments", body, "Idempotency-Key", "visit-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	var again created
	decodeData(t, replay, &again)
	assert.Equal(t, tr.ID, again.ID)

	w = srv.do(t, http.MethodGet, "/api/v1/treatments?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []created `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decodeData(t, w, &page)
	assert.Equal(t, int64(1), page.Pagination.Total)

	w = srv.do(t, http.MethodGet, "/api/v1/treatments?from=2024-3-1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/treatments/"+tr.ID+"/print", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, srv.printer.Jobs, 1)

	w = srv.do(t, http.MethodGet, "/api/v1/customers/"+customerID+"/treatments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/v1/treatments/"+tr.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = srv.do(t, http.MethodGet, "/api/v1/treatments/"+tr.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/treatments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhoneUploadFlow(t *testing.T) {
	srv := newTestServer(t)
	customerID := srv.createCustomer(t, "山田花子")
	w := srv.do(t, http.MethodPost, "/api/v1/treatments", referenceBody(customerID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tr created
	decodeData(t, w, &tr)

	w = srv.do(t, http.MethodGet, "/api/v1/treatments/"+tr.ID+"/qrcode?size=128", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	link, err := url.Parse(w.Header().Get("X-Upload-URL"))
	require.NoError(t, err)
	landing := link.RequestURI()

	// The phone has no session, only the token from the QR code
	w = srv.request(t, http.MethodGet, landing, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.request(t, http.MethodGet, "/api/v1/treatment-photos/"+tr.ID+"?token=forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("images[]", "after.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewGray(image.Rect(0, 0, 2, 2))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/treatment-photos/"+tr.ID+"/images?"+link.RawQuery, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored []struct {
		ImageURL string `json:"image_url"`
	}
	decodeData(t, rec, &stored)
	require.Len(t, stored, 1)

	w = srv.request(t, http.MethodGet, stored[0].ImageURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = srv.do(t, http.MethodGet, "/api/v1/treatments/"+tr.ID+"/qrcode?size=10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileAndDashboard(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/dashboard?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		DailySalesData []any `json:"daily_sales_data"`
	}
	decodeData(t, w, &stats)
	assert.Len(t, stats.DailySalesData, 31)

	w = srv.do(t, http.MethodGet, "/api/v1/printer/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
