package storage

import (
	"testing"

	"rental_agreement_backend/platform/apperr"
)

func TestParseReference(t *testing.T) {
	root, name, err := ParseReference("/uploads/vehicle_1_abc_front.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != RootUploads || name != "vehicle_1_abc_front.jpg" {
		t.Fatalf("unexpected parse result: %s %s", root, name)
	}
}

func TestParseReferenceRejectsBadInput(t *testing.T) {
	bad := []string{
		"",
		"/uploads",
		"/etc/passwd",
		"/uploads/../backups/a.pdf",
		"/uploads/..",
		"/backups/nested/a.pdf",
	}
	for _, ref := range bad {
		if _, _, err := ParseReference(ref); !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("expected bad request for %q, got %v", ref, err)
		}
	}
}

func TestDetectContentTypeSniffsPNG(t *testing.T) {
	header := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	if got := DetectContentType(header); got != "image/png" {
		t.Fatalf("expected image/png, got %s", got)
	}
	if got := DetectContentType([]byte("hello")); got != "application/octet-stream" {
		t.Fatalf("expected octet-stream, got %s", got)
	}
}

func TestValidateContentType(t *testing.T) {
	if err := ValidateContentType("image/JPEG; charset=binary"); err != nil {
		t.Fatalf("expected jpeg to be allowed, got %v", err)
	}
	if err := ValidateContentType("application/pdf"); err == nil {
		t.Fatal("expected pdf upload to be rejected")
	}
}
