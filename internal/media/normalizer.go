// Package media normalizes uploaded photographs and scans into bounded,
// re-encoded JPEGs, optionally stamped with the company watermark.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/sanitize"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// Purpose tags the stored filename with what the image is for.
type Purpose string

const (
	PurposeVehicle  Purpose = "vehicle"
	PurposePayment  Purpose = "payment"
	PurposeDocument Purpose = "document"
	PurposeUtility  Purpose = "utility"
)

// Options bound the output image.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	Watermark bool
	Purpose   Purpose
}

// DocumentOptions is used for identity document scans.
func DocumentOptions() Options {
	return Options{MaxWidth: 1200, MaxHeight: 1200, Quality: 80, Watermark: true, Purpose: PurposeDocument}
}

// UtilityBillOptions keeps the document bound without a watermark.
func UtilityBillOptions() Options {
	return Options{MaxWidth: 1200, MaxHeight: 1200, Quality: 80, Purpose: PurposeUtility}
}

// VehiclePhotoOptions is used for vehicle condition photos.
func VehiclePhotoOptions() Options {
	return Options{MaxWidth: 800, MaxHeight: 600, Quality: 85, Purpose: PurposeVehicle}
}

// PaymentProofOptions shares the vehicle photo bound.
func PaymentProofOptions() Options {
	opts := VehiclePhotoOptions()
	opts.Purpose = PurposePayment
	return opts
}

// UploadedImage is a raw client upload.
type UploadedImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Transform decodes data, fits it inside the option bounds without enlarging,
// optionally watermarks it and re-encodes it as JPEG.
func Transform(data []byte, opts Options) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperr.Decode("image is empty", nil)
	}
	if !filetype.IsImage(data) {
		return nil, apperr.Decode("upload is not a recognised image", nil)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Decode("failed to decode image", err)
	}

	var img image.Image = imaging.Fit(src, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)

	if opts.Watermark {
		img, err = applyWatermark(img)
		if err != nil {
			return nil, apperr.Decode("failed to render watermark", err)
		}
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, apperr.Decode("failed to encode image", err)
	}
	return buf.Bytes(), nil
}

// Normalizer transforms uploads and persists them under the uploads root.
type Normalizer struct {
	store storage.ArtifactStore
	now   func() time.Time
}

// NewNormalizer creates a Normalizer writing to store.
func NewNormalizer(store storage.ArtifactStore) *Normalizer {
	return &Normalizer{store: store, now: time.Now}
}

// Normalize transforms the upload and returns the stored reference.
func (n *Normalizer) Normalize(ctx context.Context, upload UploadedImage, opts Options) (string, error) {
	out, err := Transform(upload.Data, opts)
	if err != nil {
		return "", err
	}
	name := StoredName(opts.Purpose, upload.Filename, n.now())
	return n.store.Put(ctx, storage.RootUploads, name, out, "image/jpeg")
}

// StoredName builds <purpose>_<unixMillis>_<8 hex>_<sanitized base>.jpg.
func StoredName(purpose Purpose, original string, at time.Time) string {
	if purpose == "" {
		purpose = PurposeVehicle
	}
	base := sanitize.FileName(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s_%d_%s_%s.jpg", purpose, at.UnixMilli(), uuid.NewString()[:8], base)
}
