package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// TreatmentHandler handles treatment records, their photos and pricing previews
type TreatmentHandler struct {
	treatmentService *service.TreatmentService
	imageService     *service.ImageService
	photoService     *service.PhotoUploadService
}

// NewTreatmentHandler creates a new treatment handler
func NewTreatmentHandler(
	treatmentService *service.TreatmentService,
	imageService *service.ImageService,
	photoService *service.PhotoUploadService,
) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentService: treatmentService,
		imageService:     imageService,
		photoService:     photoService,
	}
}

func selectionInput(req *request.SelectionRequest) service.SelectionInput {
	return service.SelectionInput{
		Contents:          req.Contents,
		Products:          req.Products,
		TreatmentDiscount: req.TreatmentDiscount,
		RetailDiscount:    req.RetailDiscount,
	}
}

func treatmentInput(req *request.TreatmentRequest) (service.TreatmentInput, error) {
	date, err := parseDate("treatment_date", req.TreatmentDate)
	if err != nil {
		return service.TreatmentInput{}, err
	}
	next, err := parseOptionalDate("next_appointment_date", req.NextAppointmentDate)
	if err != nil {
		return service.TreatmentInput{}, err
	}

	return service.TreatmentInput{
		CustomerID:          req.CustomerID,
		TreatmentDate:       date,
		TreatmentTime:       req.TreatmentTime,
		StylistID:           req.StylistID,
		StylistName:         req.StylistName,
		SelectionInput:      selectionInput(&req.SelectionRequest),
		StyleMemo:           req.StyleMemo,
		UsedChemicals:       req.UsedChemicals,
		Solution1Time:       req.Solution1Time,
		Solution2Time:       req.Solution2Time,
		ColorTime1:          req.ColorTime1,
		ColorTime2:          req.ColorTime2,
		OtherDetails:        req.OtherDetails,
		Notes:               req.Notes,
		ConversationContent: req.ConversationContent,
		PaymentMethodID:     req.PaymentMethodID,
		PaymentMethod:       req.PaymentMethod,
		NextAppointmentDate: next,
		NextAppointmentTime: req.NextAppointmentTime,
	}, nil
}

// List handles listing treatments filtered by customer_id, from, to and stylist
func (h *TreatmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListTreatmentsInput{
		Stylist: strings.TrimSpace(c.Query("stylist")),
		PaginationParams: pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}
	if v := c.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &id
	}
	for field, dst := range map[string]**time.Time{"from": &input.From, "to": &input.To} {
		v := c.Query(field)
		if v == "" {
			continue
		}
		d, err := parseDate(field, v)
		if err != nil {
			response.Error(c, err)
			return
		}
		*dst = &d
	}

	result, err := h.treatmentService.ListTreatments(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Treatments retrieved successfully", result)
}

// Create handles recording a visit. Amounts are priced on the server.
func (h *TreatmentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.TreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := treatmentInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	treatment, err := h.treatmentService.CreateTreatment(c.Request.Context(), &service.CreateTreatmentInput{
		UserID:         *userID,
		TreatmentInput: input,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Treatment created successfully", treatment)
}

// Get handles getting a single treatment
func (h *TreatmentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	treatment, err := h.treatmentService.GetTreatment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treatment retrieved successfully", treatment)
}

// Update handles replacing a treatment record and re-pricing it
func (h *TreatmentHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	var req request.TreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := treatmentInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	treatment, err := h.treatmentService.UpdateTreatment(c.Request.Context(), &service.UpdateTreatmentInput{
		ID:             id,
		TreatmentInput: input,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treatment updated successfully", treatment)
}

// Delete handles deleting a treatment and its photos
func (h *TreatmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	if err := h.treatmentService.DeleteTreatment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Quote prices a selection without saving it
func (h *TreatmentHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	out, err := h.treatmentService.Quote(c.Request.Context(), &service.QuoteInput{
		SelectionInput: selectionInput(&req.SelectionRequest),
		Events:         req.Events,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote calculated successfully", out)
}

// ListImages handles listing the photos of a treatment
func (h *TreatmentHandler) ListImages(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	images, err := h.imageService.ListImages(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Images retrieved successfully", images)
}

// UploadImages handles a multipart upload of images[] from the salon screen
func (h *TreatmentHandler) UploadImages(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}
	uploadImages(c, h.imageService, id)
}

// DeleteImage handles removing one photo
func (h *TreatmentHandler) DeleteImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}
	imageID, ok := parseUUIDParam(c, "image_id", "image")
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Image deleted successfully", nil)
}

// UploadLink returns the signed phone upload URL of a treatment
func (h *TreatmentHandler) UploadLink(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	link, err := h.photoService.UploadLink(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Upload link generated successfully", link)
}

// QRCode renders the phone upload URL as a PNG; ?size= sets the edge length
func (h *TreatmentHandler) QRCode(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "treatment")
	if !ok {
		return
	}

	size := queryInt(c, "size", service.DefaultQRSize)
	if size < 64 || size > 1024 {
		response.BadRequest(c, "size must be between 64 and 1024")
		return
	}

	png, link, err := h.photoService.QRCode(c.Request.Context(), id, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("X-Upload-URL", link.URL)
	c.Data(http.StatusOK, "image/png", png)
}

// uploadImages reads images[] (or images) from a multipart form and stores them
func uploadImages(c *gin.Context, images *service.ImageService, treatmentID uuid.UUID) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Invalid multipart form")
		return
	}

	headers := form.File["images[]"]
	if len(headers) == 0 {
		headers = form.File["images"]
	}

	uploads := make([]service.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, apperror.NewUnprocessableError("images", "could not read "+fh.Filename))
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, service.UploadFile{OriginalName: fh.Filename, Reader: f})
	}

	stored, err := images.UploadImages(c.Request.Context(), treatmentID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Images uploaded successfully", stored)
}
