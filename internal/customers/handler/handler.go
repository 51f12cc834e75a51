package handler

import (
	"net/http"

	"rental_agreement_backend/internal/customers/service"
	"rental_agreement_backend/internal/customers/transport"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/platform/httpkit"
	"rental_agreement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingICScan    = "icPassport file is required"
)

// Handler handles HTTP requests for customers
type Handler struct {
	svc      *service.Service
	val      *validator.Validator
	maxBytes int64
}

// New creates a new customers handler
func New(svc *service.Service, val *validator.Validator, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, val: val, maxBytes: maxUploadBytes}
}

// RegisterRoutes registers the customer routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadLimit gin.HandlerFunc) {
	rg.POST("", uploadLimit, httpkit.MaxBodySize(3*h.maxBytes), h.Register)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/accept-terms", h.AcceptTerms)
}

// Register handles POST /api/v1/customers
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterCustomerRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	icHeader, err := c.FormFile("icPassport")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingICScan, nil)
		return
	}
	icScan, err := media.FromFileHeader(icHeader, h.maxBytes)
	if httpkit.HandleError(c, err) {
		return
	}

	in := service.RegisterInput{Request: req, ICPassport: icScan}
	if billHeader, err := c.FormFile("utilityBill"); err == nil {
		bill, err := media.FromFileHeader(billHeader, h.maxBytes)
		if httpkit.HandleError(c, err) {
			return
		}
		in.UtilityBill = &bill
	}

	result, err := h.svc.Register(c.Request.Context(), in)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// GetByID handles GET /api/v1/customers/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// AcceptTerms handles POST /api/v1/customers/:id/accept-terms
func (h *Handler) AcceptTerms(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.AcceptTerms(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
