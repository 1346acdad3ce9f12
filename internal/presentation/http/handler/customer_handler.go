package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers. page/per_page select an offset page, newest
// first; cursor, direction and limit select a keyset page, oldest first.
func (h *CustomerHandler) List(c *gin.Context) {
	search := c.Query("search")

	var query pagination.ListParams
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	if query.IsCursorBased() {
		result, err := h.customerService.ListCustomersWithCursor(c.Request.Context(), query.ToCursorParams(), search)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Customers retrieved successfully", result)
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), query.ToPaginationParams(), search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

func customerProfile(req *request.CustomerRequest) (service.CustomerProfile, error) {
	dob, err := parseOptionalDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return service.CustomerProfile{}, err
	}
	return service.CustomerProfile{
		Furigana:         req.Furigana,
		Gender:           req.Gender,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		DateOfBirth:      dob,
		Age:              req.Age,
		Occupation:       req.Occupation,
		PostalCode:       req.PostalCode,
		Address:          req.Address,
		VisitingFamily:   req.VisitingFamily,
		Email:            req.Email,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
		MedicalHistory:   req.MedicalHistory,
		Notes:            req.Notes,
		ReferralSource1:  req.ReferralSource1,
		ReferralSource2:  req.ReferralSource2,
		ReferralSource3:  req.ReferralSource3,
		ReferralDetails:  req.ReferralDetails,
	}, nil
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		response.Error(c, apperror.NewUnprocessableError("name", "name is required"))
		return
	}

	profile, err := customerProfile(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		UserID:          *userID,
		Name:            strings.TrimSpace(*req.Name),
		CustomerProfile: profile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Treatments handles listing the visit history of a customer
func (h *CustomerHandler) Treatments(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "customer")
	if !ok {
		return
	}

	treatments, err := h.customerService.ListCustomerTreatments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treatments retrieved successfully", treatments)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "customer")
	if !ok {
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := customerProfile(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:              id,
		Name:            req.Name,
		CustomerProfile: profile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer together with their treatments and photos
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
