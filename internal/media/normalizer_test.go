package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 10 {
		for x := 0; x < w; x += 10 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected JPEG output, got %v", err)
	}
	return img
}

func TestTransformFitsWithinBoundsPreservingAspect(t *testing.T) {
	out, err := Transform(pngBytes(t, 1600, 900), VehiclePhotoOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 800 || b.Dy() != 450 {
		t.Fatalf("expected 800x450, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestTransformNeverUpscales(t *testing.T) {
	out, err := Transform(pngBytes(t, 400, 300), VehiclePhotoOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := decodeJPEG(t, out).Bounds()
	if b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("expected 400x300, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestTransformWatermarksDocuments(t *testing.T) {
	plain, err := Transform(pngBytes(t, 2400, 1200), UtilityBillOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	marked, err := Transform(pngBytes(t, 2400, 1200), DocumentOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := decodeJPEG(t, marked).Bounds()
	if b.Dx() != 1200 || b.Dy() != 600 {
		t.Fatalf("expected 1200x600, got %dx%d", b.Dx(), b.Dy())
	}
	if bytes.Equal(plain, marked) {
		t.Fatal("expected watermark to change the encoded output")
	}
}

func TestTransformRejectsNonImages(t *testing.T) {
	_, err := Transform([]byte("%PDF-1.4 not an image"), VehiclePhotoOptions())
	if !apperr.Is(err, apperr.KindDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	_, err = Transform(nil, VehiclePhotoOptions())
	if !apperr.Is(err, apperr.KindDecode) {
		t.Fatalf("expected decode error for empty input, got %v", err)
	}
}

func TestNormalizeStoresUnderUploads(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	n := NewNormalizer(store)
	n.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ref, err := n.Normalize(context.Background(), UploadedImage{
		Data:     pngBytes(t, 100, 80),
		Filename: "front view.png",
	}, PaymentProofOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/payment_1700000000000_") || !strings.HasSuffix(ref, "_front_view.jpg") {
		t.Fatalf("unexpected reference %s", ref)
	}

	ok, err := store.Exists(context.Background(), ref)
	if err != nil || !ok {
		t.Fatalf("expected stored artifact, got ok=%v err=%v", ok, err)
	}
}

func TestStoredNameIsUniquePerCall(t *testing.T) {
	at := time.Now()
	a := StoredName(PurposeVehicle, "a.jpg", at)
	b := StoredName(PurposeVehicle, "a.jpg", at)
	if a == b {
		t.Fatalf("expected distinct names, got %s twice", a)
	}
}
