package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// PhotoHandler serves the token-authorised pages a phone opens from a QR code
type PhotoHandler struct {
	photoService *service.PhotoUploadService
	imageService *service.ImageService
}

// NewPhotoHandler creates a new photo upload handler
func NewPhotoHandler(photoService *service.PhotoUploadService, imageService *service.ImageService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService, imageService: imageService}
}

// Landing describes the treatment the scanned link was issued for
func (h *PhotoHandler) Landing(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	page, err := h.photoService.UploadPage(c.Request.Context(), id, c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Upload page retrieved successfully", page)
}

// Upload stores photos sent from a phone holding a valid upload token
func (h *PhotoHandler) Upload(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	if err := h.photoService.VerifyToken(id, c.Query("token")); err != nil {
		response.Error(c, err)
		return
	}

	uploadImages(c, h.imageService, id)
}
