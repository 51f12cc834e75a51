package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rentals")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetStorageBackend() != StorageBackendLocal {
		t.Fatalf("expected local backend, got %q", cfg.GetStorageBackend())
	}
	if cfg.GetMaxUploadBytes() != 10*1024*1024 {
		t.Fatalf("expected 10MB upload ceiling, got %d", cfg.GetMaxUploadBytes())
	}
	if cfg.GetAgreementStepTimeout() != 30*time.Second {
		t.Fatalf("expected 30s step timeout, got %s", cfg.GetAgreementStepTimeout())
	}
	if cfg.GetEmailEnabled() {
		t.Fatal("expected email disabled without SMTP_HOST")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadRejectsMinIOBackendWithoutEndpoint(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rentals")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for minio backend without endpoint")
	}
}

func TestLoadRequiresFromAddressWhenEmailEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rentals")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SMTP_FROM is missing")
	}
}

func TestSplitCSVDropsBlanks(t *testing.T) {
	got := splitCSV(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected split result: %#v", got)
	}
}
