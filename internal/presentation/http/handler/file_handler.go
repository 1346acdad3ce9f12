package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// FileHandler serves stored treatment photos
type FileHandler struct {
	imageService *service.ImageService
}

// NewFileHandler creates a new file handler
func NewFileHandler(imageService *service.ImageService) *FileHandler {
	return &FileHandler{imageService: imageService}
}

// Serve streams one stored image by its generated filename
func (h *FileHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if name == "" || filepath.Base(name) != name {
		response.BadRequest(c, "Invalid file name")
		return
	}

	f, img, err := h.imageService.OpenImage(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size(), img.ContentType, f, nil)
}
