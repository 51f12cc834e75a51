package phone

import "testing"

func TestNormalizeE164Malaysian(t *testing.T) {
	got := NormalizeE164("012-345 6789")
	if got != "+60123456789" {
		t.Fatalf("expected +60123456789, got %s", got)
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	got := NormalizeE164("  call me  ")
	if got != "call me" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}
