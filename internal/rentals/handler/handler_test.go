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
	"strings"
	"sync"
	"testing"

	"rental_agreement_backend/internal/agreement"
	"rental_agreement_backend/internal/media"
	"rental_agreement_backend/internal/rentals/repository"
	"rental_agreement_backend/internal/rentals/service"
	"rental_agreement_backend/internal/rentals/transport"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRepo struct {
	mu      sync.Mutex
	rentals map[uuid.UUID]repository.Rental
}

func (m *memRepo) Create(_ context.Context, r *repository.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rentals[r.ID] = *r
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return repository.Rental{}, apperr.NotFound("rental not found")
	}
	return r, nil
}

type knownCustomer uuid.UUID

func (k knownCustomer) CustomerExists(_ context.Context, id uuid.UUID) error {
	if id != uuid.UUID(k) {
		return apperr.NotFound("customer not found")
	}
	return nil
}

type countingNormalizer struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNormalizer) Normalize(_ context.Context, upload media.UploadedImage, opts media.Options) (string, error) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	return "/uploads/" + string(opts.Purpose) + "_" + upload.Filename, nil
}

type noSignature struct{}

func (noSignature) Store(context.Context, string) (string, error) { return "", nil }

type artifactMap map[string][]byte

func (a artifactMap) Read(_ context.Context, ref string) ([]byte, error) {
	b, ok := a[ref]
	if !ok {
		return nil, apperr.NotFound("artifact not found")
	}
	return b, nil
}

type testEnv struct {
	engine     *gin.Engine
	repo       *memRepo
	normalizer *countingNormalizer
	customerID uuid.UUID
}

func newTestEnv(t *testing.T, maxUploadBytes int64, artifacts artifactMap) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:       &memRepo{rentals: map[uuid.UUID]repository.Rental{}},
		normalizer: &countingNormalizer{},
		customerID: uuid.New(),
	}
	svc := service.New(env.repo, knownCustomer(env.customerID), env.normalizer, noSignature{}, nil, artifacts)
	h := New(svc, validator.New(), maxUploadBytes)

	env.engine = gin.New()
	h.RegisterRoutes(env.engine.Group("/rentals"), func(c *gin.Context) { c.Next() })
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files []formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/rentals", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func rentalFields(customerID uuid.UUID) map[string]string {
	return map[string]string{
		"customerId":   customerID.String(),
		"vehicle":      "Perodua Myvi",
		"color":        "White",
		"mileageLimit": "250",
		"fuelLevel":    "4",
		"startDate":    "2025-01-01",
		"endDate":      "2025-01-06",
		"rentalPerDay": "100",
		"deposit":      "300",
		"discount":     "50",
	}
}

func vehiclePhotos(t *testing.T, n int) []formFile {
	data := pngBytes(t)
	files := make([]formFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, formFile{field: vehiclePhotosField, name: "photo.png", data: data})
	}
	return files
}

func TestSubmitCreatesRentalWithSlotOverride(t *testing.T) {
	env := newTestEnv(t, 1<<20, nil)
	files := append(vehiclePhotos(t, len(agreement.PhotoSlots)),
		formFile{field: slotFieldPrefix + string(agreement.SlotFront), name: "front-override.png", data: pngBytes(t)},
		formFile{field: paymentProofField, name: "proof.png", data: pngBytes(t)},
	)

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, multipartRequest(t, rentalFields(env.customerID), files))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got transport.RentalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.HasSuffix(got.VehiclePhotos[string(agreement.SlotFront)], "front-override.png") {
		t.Fatalf("expected front slot from override field, got %q", got.VehiclePhotos[string(agreement.SlotFront)])
	}
	if !strings.HasSuffix(got.VehiclePhotos[string(agreement.SlotBack)], "photo.png") {
		t.Fatalf("expected back slot from vehiclePhotos, got %q", got.VehiclePhotos[string(agreement.SlotBack)])
	}
	if got.GrandTotal != "750.00" {
		t.Fatalf("expected grand total 750.00, got %s", got.GrandTotal)
	}
}

func TestSubmitRejectsWrongVehiclePhotoCount(t *testing.T) {
	env := newTestEnv(t, 1<<20, nil)
	files := append(vehiclePhotos(t, 3), formFile{field: paymentProofField, name: "proof.png", data: pngBytes(t)})

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, multipartRequest(t, rentalFields(env.customerID), files))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.normalizer.calls != 0 {
		t.Fatalf("expected no uploads stored, got %d", env.normalizer.calls)
	}
}

func TestSubmitRejectsOversizedBody(t *testing.T) {
	env := newTestEnv(t, 512, nil)
	files := []formFile{{field: paymentProofField, name: "proof.png", data: bytes.Repeat([]byte{0x89}, 16*1024)}}

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, multipartRequest(t, rentalFields(env.customerID), files))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.repo.rentals) != 0 {
		t.Fatalf("expected no rental created, got %d", len(env.repo.rentals))
	}
}

func TestDownloadAgreementSetsAttachmentHeaders(t *testing.T) {
	ref := "/backups/Ali-Bin-Abu-2025-01-01-1a2b3c4d-agreement.pdf"
	env := newTestEnv(t, 1<<20, artifactMap{ref: []byte("%PDF-1.4")})
	id := uuid.New()
	env.repo.rentals[id] = repository.Rental{ID: id, AgreementPDFURL: &ref}

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rentals/"+id.String()+"/download-agreement", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `attachment; filename="Ali-Bin-Abu-2025-01-01-1a2b3c4d-agreement.pdf"`
	if got := rec.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("expected Content-Disposition %q, got %q", want, got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
	if rec.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestDownloadAgreementWithoutAgreementIs404(t *testing.T) {
	env := newTestEnv(t, 1<<20, artifactMap{})
	id := uuid.New()
	env.repo.rentals[id] = repository.Rental{ID: id}

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rentals/"+id.String()+"/download-agreement", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
