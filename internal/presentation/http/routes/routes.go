package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Master    *handler.MasterHandler
	Customer  *handler.CustomerHandler
	Treatment *handler.TreatmentHandler
	Photo     *handler.PhotoHandler
	File      *handler.FileHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
	System    *handler.SystemHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// NewRateLimiter builds the request limiter from the rate limit settings
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.RateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	rlCfg.CleanupInterval = 5 * time.Minute
	rlCfg.EntryTTL = 10 * time.Minute
	return middleware.NewRateLimiter(rlCfg)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.System.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.System.Health)

		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)
		registerPublicRoutes(v1, h, deps)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

// registerPublicRoutes serves phones that scanned a treatment QR code. They
// carry an upload token instead of a session, so they are limited per IP.
func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	photos := v1.Group("/treatment-photos")
	photos.Use(deps.RateLimiter.Middleware())
	{
		photos.GET("/:id", h.Photo.Landing)
		photos.POST("/:id/images", h.Photo.Upload)
	}

	v1.GET("/files/:name", h.File.Serve)
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", middleware.RequirePermission(entity.PermissionViewDashboard), h.Dashboard.GetStats)
	protected.GET("/network-info", h.System.NetworkInfo)

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", middleware.RequirePermission(entity.PermissionManageMasters), h.Printer.TestPrint)
	}

	registerMasterRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerTreatmentRoutes(protected, h, deps)
	registerUserRoutes(protected, h)
}

func registerMasterRoutes(protected *gin.RouterGroup, h *Handlers) {
	masters := protected.Group("/masters/:kind")
	{
		masters.GET("", h.Master.List)

		write := masters.Group("")
		write.Use(middleware.RequirePermission(entity.PermissionManageMasters))
		write.POST("", h.Master.Create)
		write.PUT("/:id", h.Master.Update)
		write.DELETE("/:id", h.Master.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermissionManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/treatments", h.Customer.Treatments)
	}
}

func registerTreatmentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	treatments := protected.Group("/treatments")
	treatments.Use(middleware.RequirePermission(entity.PermissionManageTreatments))
	{
		treatments.GET("", h.Treatment.List)
		treatments.POST("", idempotency, h.Treatment.Create)
		treatments.POST("/quote", h.Treatment.Quote)
		treatments.GET("/:id", h.Treatment.Get)
		treatments.PUT("/:id", h.Treatment.Update)
		treatments.DELETE("/:id", h.Treatment.Delete)

		treatments.GET("/:id/images", h.Treatment.ListImages)
		treatments.POST("/:id/images", h.Treatment.UploadImages)
		treatments.DELETE("/:id/images/:image_id", h.Treatment.DeleteImage)
		treatments.GET("/:id/qrcode", h.Treatment.QRCode)
		treatments.GET("/:id/upload-link", h.Treatment.UploadLink)
		treatments.POST("/:id/print", h.Printer.PrintTreatment)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("")
	users.Use(middleware.RequirePermission(entity.PermissionManageUsers))
	{
		users.GET("/users", h.User.List)
		users.POST("/users", h.User.Create)
		users.GET("/users/:id", h.User.Get)
		users.PUT("/users/:id/roles", h.User.UpdateRoles)
		users.DELETE("/users/:id", h.User.Delete)
		users.GET("/roles", h.User.ListRoles)
		users.GET("/permissions", h.User.ListPermissions)
	}
}
