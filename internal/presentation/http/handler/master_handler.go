package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// MasterHandler serves the salon's master data collections under /masters/:kind
type MasterHandler struct {
	masterService *service.MasterService
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(masterService *service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

func masterInput(req *request.MasterRequest) *service.MasterInput {
	return &service.MasterInput{
		Name:          req.Name,
		IsActive:      req.IsActive,
		Category:      req.Category,
		Price:         req.Price.Value,
		ClearPrice:    req.Price.Cleared(),
		Quantity:      req.Quantity,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
	}
}

// List returns every entry of a collection ordered by id. ?active=true hides
// inactive entries.
func (h *MasterHandler) List(c *gin.Context) {
	kind := entity.MasterKind(c.Param("kind"))
	activeOnly := c.Query("active") == "true" || c.Query("active") == "1"

	items, err := h.masterService.List(c.Request.Context(), kind, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Master data retrieved successfully", items)
}

// Create adds an entry to a collection
func (h *MasterHandler) Create(c *gin.Context) {
	kind := entity.MasterKind(c.Param("kind"))

	var req request.MasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.masterService.Create(c.Request.Context(), kind, masterInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Master data created successfully", item)
}

// Update changes the fields present in the body
func (h *MasterHandler) Update(c *gin.Context) {
	kind := entity.MasterKind(c.Param("kind"))
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req request.MasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.masterService.Update(c.Request.Context(), kind, id, masterInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Master data updated successfully", item)
}

// Delete removes an entry. Treatments keep the names they were saved with;
// for menus the response reports how many treatments used the entry.
func (h *MasterHandler) Delete(c *gin.Context) {
	kind := entity.MasterKind(c.Param("kind"))
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	result, err := h.masterService.Delete(c.Request.Context(), kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Master data deleted successfully", result)
}
