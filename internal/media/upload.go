package media

import (
	"fmt"
	"io"
	"mime/multipart"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"
)

// FromFileHeader reads a multipart file into an UploadedImage, enforcing the
// size ceiling and sniffing the real content type.
func FromFileHeader(fh *multipart.FileHeader, maxBytes int64) (UploadedImage, error) {
	if err := storage.ValidateFileSize(fh.Size, maxBytes); err != nil {
		return UploadedImage{}, apperr.Validation(fmt.Sprintf("%s: %s", fh.Filename, err.Error()))
	}

	f, err := fh.Open()
	if err != nil {
		return UploadedImage{}, apperr.BadRequest("failed to open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return UploadedImage{}, apperr.BadRequest("failed to read upload")
	}
	if int64(len(data)) > maxBytes {
		return UploadedImage{}, apperr.Validation(fmt.Sprintf("%s exceeds the upload limit", fh.Filename))
	}

	contentType := storage.DetectContentType(data)
	if err := storage.ValidateContentType(contentType); err != nil {
		return UploadedImage{}, apperr.Decode(fmt.Sprintf("%s is not a supported image", fh.Filename), err)
	}

	return UploadedImage{Data: data, ContentType: contentType, Filename: fh.Filename}, nil
}
