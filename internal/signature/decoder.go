// Package signature turns a canvas data URL into a stored PNG.
package signature

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"regexp"
	"strings"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

// Decode validates a data URL and returns the image re-encoded as PNG.
func Decode(dataURL string) ([]byte, error) {
	trimmed := strings.TrimSpace(dataURL)
	loc := dataURLPrefix.FindStringIndex(trimmed)
	if loc == nil {
		return nil, apperr.InvalidSignature("signature must be a base64 image data URL", nil)
	}

	payload := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, trimmed[loc[1]:])
	payload = strings.TrimRight(payload, "=")

	raw, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.InvalidSignature("signature payload is not valid base64", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperr.InvalidSignature("signature payload is not an image", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperr.InvalidSignature("failed to encode signature", err)
	}
	return buf.Bytes(), nil
}

// Decoder persists decoded signatures.
type Decoder struct {
	store storage.ArtifactStore
	now   func() time.Time
}

// NewDecoder creates a Decoder writing to store.
func NewDecoder(store storage.ArtifactStore) *Decoder {
	return &Decoder{store: store, now: time.Now}
}

// Store decodes dataURL and saves it under uploads. A blank input means no
// signature was provided and yields an empty reference.
func (d *Decoder) Store(ctx context.Context, dataURL string) (string, error) {
	if strings.TrimSpace(dataURL) == "" {
		return "", nil
	}
	data, err := Decode(dataURL)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("signature_%d_%s.png", d.now().UnixMilli(), uuid.NewString()[:8])
	return d.store.Put(ctx, storage.RootUploads, name, data, "image/png")
}
