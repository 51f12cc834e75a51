package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental_agreement_backend/internal/customers/repository"
	"rental_agreement_backend/internal/customers/service"
	"rental_agreement_backend/internal/customers/transport"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/httpkit"
	"rental_agreement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRepo struct {
	items map[uuid.UUID]repository.Customer
}

func (m *memRepo) Create(_ context.Context, c *repository.Customer) error {
	m.items[c.ID] = *c
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return repository.Customer{}, apperr.NotFound("customer not found")
	}
	return c, nil
}

func (m *memRepo) AcceptTerms(_ context.Context, id uuid.UUID, at time.Time) error {
	c, ok := m.items[id]
	if !ok {
		return apperr.NotFound("customer not found")
	}
	c.TermsAcceptedAt = &at
	m.items[id] = c
	return nil
}

type recordingNormalizer struct {
	purposes []media.Purpose
}

func (r *recordingNormalizer) Normalize(_ context.Context, upload media.UploadedImage, opts media.Options) (string, error) {
	r.purposes = append(r.purposes, opts.Purpose)
	return "/uploads/" + string(opts.Purpose) + "_" + upload.Filename, nil
}

func newTestEngine(maxUploadBytes int64) (*gin.Engine, *memRepo, *recordingNormalizer) {
	repo := &memRepo{items: map[uuid.UUID]repository.Customer{}}
	norm := &recordingNormalizer{}
	h := New(service.New(repo, norm), validator.New(), maxUploadBytes)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/customers"), func(c *gin.Context) { c.Next() })
	return engine, repo, norm
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func registrationRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"fullName":         "Nurul Aisyah",
		"email":            "nurul@example.com",
		"phone":            "012-345 6789",
		"address":          "Petaling Jaya, Selangor",
		"icPassportNumber": "900101-14-5678",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, data := range files {
		part, err := w.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/customers", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRegisterStoresICScanAndUtilityBill(t *testing.T) {
	engine, repo, norm := newTestEngine(1 << 20)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, registrationRequest(t, map[string][]byte{
		"icPassport":  pngBytes(t),
		"utilityBill": pngBytes(t),
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got transport.CustomerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ICPassportURL == nil || got.UtilityBillURL == nil {
		t.Fatalf("expected both scans stored, got %+v", got)
	}
	if len(norm.purposes) != 2 || norm.purposes[0] != media.PurposeDocument {
		t.Fatalf("expected document then utility bill, got %v", norm.purposes)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(repo.items))
	}
}

func TestRegisterRequiresICScan(t *testing.T) {
	engine, repo, _ := newTestEngine(1 << 20)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, registrationRequest(t, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != msgMissingICScan {
		t.Fatalf("expected %q, got %q", msgMissingICScan, body.Error)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no customer created, got %d", len(repo.items))
	}
}

func TestRegisterRejectsNonImageScan(t *testing.T) {
	engine, _, norm := newTestEngine(1 << 20)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, registrationRequest(t, map[string][]byte{"icPassport": []byte("not an image")}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(norm.purposes) != 0 {
		t.Fatalf("expected nothing stored, got %v", norm.purposes)
	}
}

func TestRegisterRejectsOversizedBody(t *testing.T) {
	engine, repo, _ := newTestEngine(512)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, registrationRequest(t, map[string][]byte{"icPassport": bytes.Repeat([]byte{0x89}, 8*1024)}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no customer created, got %d", len(repo.items))
	}
}

func TestAcceptTermsUnknownCustomerIs404(t *testing.T) {
	engine, _, _ := newTestEngine(1 << 20)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers/"+uuid.NewString()+"/accept-terms", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
