package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/infrastructure/database"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/storage"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/routes"
	"github.com/sangkips/salon-api/pkg/printer"
	"github.com/sangkips/salon-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.InitLogger(cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Warn().Err(err).Msg("failed to seed default data")
	}

	files, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("failed to prepare image storage")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	treatmentRepo := repository.NewTreatmentRepository(db)
	imageRepo := repository.NewTreatmentImageRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	masters := service.MasterRepositories{
		Staff:           repository.NewMasterRepository[entity.Staff](db),
		TreatmentMenus:  repository.NewMasterRepository[entity.TreatmentMenu](db),
		RetailProducts:  repository.NewMasterRepository[entity.RetailProduct](db),
		ReferralSources: repository.NewMasterRepository[entity.ReferralSource](db),
		PaymentMethods:  repository.NewMasterRepository[entity.PaymentMethod](db),
		DiscountTypes:   repository.NewMasterRepository[entity.DiscountType](db),
	}

	// Initialize services
	catalogService := service.NewCatalogService(masters.TreatmentMenus, masters.RetailProducts, masters.DiscountTypes)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo, masters.Staff)
	masterService := service.NewMasterService(masters, treatmentRepo, catalogService)
	customerService := service.NewCustomerService(customerRepo, treatmentRepo, files)
	treatmentService := service.NewTreatmentService(treatmentRepo, customerRepo, masters.Staff, masters.PaymentMethods, catalogService, files)
	imageService := service.NewImageService(imageRepo, treatmentRepo, files, cfg.Storage.UploadMaxSize)
	photoService := service.NewPhotoUploadService(treatmentRepo, jwtManager, cfg.Upload.PublicBaseURL, cfg.App.Port, cfg.Upload.TokenTTL)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn().Err(err).Str("type", cfg.Printer.Type).Msg("failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, treatmentRepo, cfg.Printer, cfg.Salon)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Master:    handler.NewMasterHandler(masterService),
		Customer:  handler.NewCustomerHandler(customerService),
		Treatment: handler.NewTreatmentHandler(treatmentService, imageService, photoService),
		Photo:     handler.NewPhotoHandler(photoService, imageService),
		File:      handler.NewFileHandler(imageService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Printer:   handler.NewPrinterHandler(printerService),
		System:    handler.NewSystemHandler(db, photoService, cfg.App.Name),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	done := make(chan struct{})
	go rateLimiter.Run(done)
	go purgeIdempotencyKeys(done, idempotencyRepo)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		info := photoService.NetworkInfo()
		log.Info().
			Str("env", cfg.App.Env).
			Str("port", port).
			Str("upload_base_url", info.BaseURL).
			Msgf("starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	if err := thermalPrinter.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close printer")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type expiredKeyPurger interface {
	DeleteExpired(ctx context.Context) error
}

// purgeIdempotencyKeys drops expired replay records every hour
func purgeIdempotencyKeys(done <-chan struct{}, repo expiredKeyPurger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to purge idempotency keys")
			}
		}
	}
}
