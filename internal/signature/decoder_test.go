package signature

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"
)

func signatureDataURL(t *testing.T) (string, image.Image) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 20))
	for x := 5; x < 55; x++ {
		img.Set(x, 10, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), img
}

func TestDecodeRoundTrip(t *testing.T) {
	dataURL, want := signatureDataURL(t)

	out, err := Decode(dataURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("expected PNG output, got %v", err)
	}
	if got.Bounds() != want.Bounds() {
		t.Fatalf("expected bounds %v, got %v", want.Bounds(), got.Bounds())
	}
	r, _, _, a := got.At(20, 10).RGBA()
	if a == 0 || r != 0 {
		t.Fatalf("expected opaque black stroke pixel, got r=%d a=%d", r, a)
	}
}

func TestDecodeToleratesWhitespaceAndMissingPadding(t *testing.T) {
	dataURL, _ := signatureDataURL(t)
	mangled := strings.TrimRight(dataURL, "=")
	mangled = mangled[:40] + "\n" + mangled[40:]

	if _, err := Decode(mangled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := []string{
		"data:text/plain;base64,aGVsbG8=",
		"not a data url",
		"data:image/png;base64,!!!",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
	}
	for _, in := range cases {
		if _, err := Decode(in); !apperr.Is(err, apperr.KindInvalidSignature) {
			t.Fatalf("expected invalid signature for %q, got %v", in, err)
		}
	}
}

func TestStoreBlankMeansNoSignature(t *testing.T) {
	d := NewDecoder(storage.NewLocalStore(t.TempDir()))
	ref, err := d.Store(context.Background(), "   ")
	if err != nil || ref != "" {
		t.Fatalf("expected empty reference and nil error, got %q %v", ref, err)
	}
}

func TestStoreWritesPNG(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	d := NewDecoder(store)
	dataURL, _ := signatureDataURL(t)

	ref, err := d.Store(context.Background(), dataURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/signature_") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected reference %s", ref)
	}
	data, err := store.Read(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("expected stored PNG, got %v", err)
	}
}
