package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetKindUnwrapsWrappedErrors(t *testing.T) {
	base := Storage("write artifact", errors.New("disk full"))
	wrapped := fmt.Errorf("persist agreement: %w", base)

	if got := GetKind(wrapped); got != KindStorage {
		t.Fatalf("expected %s, got %s", KindStorage, got)
	}
	if !Is(wrapped, KindStorage) {
		t.Fatal("expected Is to match wrapped storage error")
	}
}

func TestGetKindUnknownForPlainErrors(t *testing.T) {
	if got := GetKind(errors.New("boom")); got != KindUnknown {
		t.Fatalf("expected unknown kind, got %s", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:         http.StatusNotFound,
		KindValidation:       http.StatusBadRequest,
		KindDecode:           http.StatusUnprocessableEntity,
		KindInvalidSignature: http.StatusUnprocessableEntity,
		KindStorage:          http.StatusBadGateway,
		KindTimeout:          http.StatusGatewayTimeout,
		KindUnavailable:      http.StatusServiceUnavailable,
		KindInternal:         http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %s: expected status %d, got %d", kind, want, got)
		}
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	err := Decode("image is not decodable", errors.New("unexpected EOF")).WithOp("media.Transform")
	want := "media.Transform: image is not decodable: unexpected EOF"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
