package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/infrastructure/database"
	"github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/storage"
	"github.com/sangkips/salon-api/internal/pricing"
	"github.com/sangkips/salon-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testOwnerEmail    = "owner@salon.test"
	testOwnerPassword = "secret123"
)

// testEnv wires every service against a seeded in-memory database
type testEnv struct {
	db      *gorm.DB
	ctx     context.Context
	owner   *entity.User
	files   *storage.LocalStorage
	jwt     *utils.JWTManager
	masters MasterRepositories

	catalog    *CatalogService
	auth       *AuthService
	users      *UserService
	masterSvc  *MasterService
	customers  *CustomerService
	treatments *TreatmentService
	images     *ImageService
	photos     *PhotoUploadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{
		Email:    testOwnerEmail,
		Password: testOwnerPassword,
		Name:     "Yuta Shimoi",
	}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:    db,
		ctx:   context.Background(),
		files: files,
		jwt:   utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour),
		masters: MasterRepositories{
			Staff:           repository.NewMasterRepository[entity.Staff](db),
			TreatmentMenus:  repository.NewMasterRepository[entity.TreatmentMenu](db),
			RetailProducts:  repository.NewMasterRepository[entity.RetailProduct](db),
			ReferralSources: repository.NewMasterRepository[entity.ReferralSource](db),
			PaymentMethods:  repository.NewMasterRepository[entity.PaymentMethod](db),
			DiscountTypes:   repository.NewMasterRepository[entity.DiscountType](db),
		},
	}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	treatmentRepo := repository.NewTreatmentRepository(db)
	imageRepo := repository.NewTreatmentImageRepository(db)

	env.catalog = NewCatalogService(env.masters.TreatmentMenus, env.masters.RetailProducts, env.masters.DiscountTypes)
	env.auth = NewAuthService(userRepo, env.jwt)
	env.users = NewUserService(userRepo, repository.NewRoleRepository(db), repository.NewPermissionRepository(db), env.masters.Staff)
	env.masterSvc = NewMasterService(env.masters, treatmentRepo, env.catalog)
	env.customers = NewCustomerService(customerRepo, treatmentRepo, files)
	env.treatments = NewTreatmentService(treatmentRepo, customerRepo, env.masters.Staff, env.masters.PaymentMethods, env.catalog, files)
	env.images = NewImageService(imageRepo, treatmentRepo, files, 1<<20)
	env.photos = NewPhotoUploadService(treatmentRepo, env.jwt, "http://salon.local:8080", "8080", 30*time.Minute)

	owner, err := userRepo.GetByEmail(env.ctx, testOwnerEmail)
	require.NoError(t, err)
	require.NotNil(t, owner)
	env.owner = owner

	return env
}

func (e *testEnv) createCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(e.ctx, &CreateCustomerInput{UserID: e.owner.ID, Name: name})
	require.NoError(t, err)
	return c
}

// referenceTreatment is the salon's worked example: カット + Mカラー with a 10%
// coupon and two bottles of shampoo
func referenceTreatment(customer *entity.Customer) TreatmentInput {
	return TreatmentInput{
		CustomerID:    customer.ID,
		TreatmentDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		StylistName:   "下井優太",
		SelectionInput: SelectionInput{
			Contents:          []pricing.Ref{{Name: "カット"}, {Name: "Mカラー"}},
			Products:          []pricing.ProductSlot{{Product: pricing.Ref{Name: "シャンプー"}, Quantity: 2}},
			TreatmentDiscount: pricing.Ref{Name: "クーポン割引"},
		},
	}
}

func (e *testEnv) createTreatment(t *testing.T, in TreatmentInput) *entity.Treatment {
	t.Helper()
	tr, err := e.treatments.CreateTreatment(e.ctx, &CreateTreatmentInput{UserID: e.owner.ID, TreatmentInput: in})
	require.NoError(t, err)
	return tr
}

func strPtr(s string) *string { return &s }
