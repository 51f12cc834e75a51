package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/internal/rentals/service"
	"rental_agreement_backend/internal/rentals/transport"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/httpkit"
	"rental_agreement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	// vehiclePhotosField carries all slots in document order.
	vehiclePhotosField = "vehiclePhotos"
	paymentProofField  = "paymentProof"
	// slotFieldPrefix + slot name replaces a single slot.
	slotFieldPrefix    = "photo_"
)

// Handler handles HTTP requests for rentals
type Handler struct {
	svc      *service.Service
	val      *validator.Validator
	maxBytes int64
}

// New creates a new rentals handler
func New(svc *service.Service, val *validator.Validator, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, val: val, maxBytes: maxUploadBytes}
}

// RegisterRoutes registers the rental routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadLimit gin.HandlerFunc) {
	rg.POST("", uploadLimit, httpkit.MaxBodySize(int64(len(agreement.PhotoSlots)+2)*h.maxBytes), h.Submit)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/generate-agreement", h.GenerateAgreement)
	rg.POST("/:id/generate-agreement/async", h.EnqueueAgreement)
	rg.GET("/:id/download-agreement", h.DownloadAgreement)
}

// Submit handles POST /api/v1/rentals
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRentalRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "multipart form expected")
		return
	}

	photos, err := h.collectPhotos(form.File)
	if httpkit.HandleError(c, err) {
		return
	}

	in := service.SubmitInput{Request: req, Photos: photos}
	if proofs := form.File[paymentProofField]; len(proofs) > 0 {
		proof, err := media.FromFileHeader(proofs[0], h.maxBytes)
		if httpkit.HandleError(c, err) {
			return
		}
		in.PaymentProof = &proof
	}

	result, err := h.svc.Submit(c.Request.Context(), in)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// collectPhotos reads vehiclePhotos in slot order, then lets a photo_<slot>
// field replace that slot.
func (h *Handler) collectPhotos(files map[string][]*multipart.FileHeader) (map[agreement.PhotoSlot]media.UploadedImage, error) {
	photos := make(map[agreement.PhotoSlot]media.UploadedImage, len(agreement.PhotoSlots))

	if list := files[vehiclePhotosField]; len(list) > 0 {
		if len(list) != len(agreement.PhotoSlots) {
			return nil, apperr.Validation(fmt.Sprintf("exactly %d vehicle photos are required", len(agreement.PhotoSlots)))
		}
		for i, fh := range list {
			img, err := media.FromFileHeader(fh, h.maxBytes)
			if err != nil {
				return nil, err
			}
			photos[agreement.PhotoSlots[i]] = img
		}
	}

	for _, slot := range agreement.PhotoSlots {
		list := files[slotFieldPrefix+string(slot)]
		if len(list) == 0 {
			continue
		}
		img, err := media.FromFileHeader(list[0], h.maxBytes)
		if err != nil {
			return nil, err
		}
		photos[slot] = img
	}
	return photos, nil
}

// GetByID handles GET /api/v1/rentals/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GenerateAgreement handles POST /api/v1/rentals/:id/generate-agreement
func (h *Handler) GenerateAgreement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateAgreement(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// EnqueueAgreement handles POST /api/v1/rentals/:id/generate-agreement/async
func (h *Handler) EnqueueAgreement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.EnqueueAgreement(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, result)
}

// DownloadAgreement handles GET /api/v1/rentals/:id/download-agreement
func (h *Handler) DownloadAgreement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	dl, err := h.svc.DownloadAgreement(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	c.Data(http.StatusOK, "application/pdf", dl.Content)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
