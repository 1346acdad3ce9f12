package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"gorm.io/gorm"
)

// SystemHandler reports server health and network details
type SystemHandler struct {
	db           *gorm.DB
	photoService *service.PhotoUploadService
	appName      string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *gorm.DB, photoService *service.PhotoUploadService, appName string) *SystemHandler {
	return &SystemHandler{db: db, photoService: photoService, appName: appName}
}

// Health checks that the database answers
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"app":       h.appName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NetworkInfo returns the address phones use to reach the upload pages
func (h *SystemHandler) NetworkInfo(c *gin.Context) {
	response.OK(c, "Network info retrieved successfully", h.photoService.NetworkInfo())
}
