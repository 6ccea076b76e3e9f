// Package upload reads closet photos submitted through the weather-to-wear
// form.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
)

// mediaTypes are the image types the suggestions backend accepts.
var mediaTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Read loads an uploaded file into memory. It rejects files larger than
// maxBytes and content that does not sniff as an image.
func Read(fh *multipart.FileHeader, maxBytes int64) (domain.ClosetImage, error) {
	if fh.Size > maxBytes {
		return domain.ClosetImage{}, &domain.ValidationError{Reason: "image_too_large", Message: domain.MsgImageTooLarge}
	}

	f, err := fh.Open()
	if err != nil {
		return domain.ClosetImage{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return readImage(f, fh.Filename, maxBytes)
}

// ReadFile loads a closet photo from disk with the same checks as Read.
func ReadFile(path string, maxBytes int64) (domain.ClosetImage, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return domain.ClosetImage{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return readImage(f, path, maxBytes)
}

func readImage(r io.Reader, filename string, maxBytes int64) (domain.ClosetImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return domain.ClosetImage{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return domain.ClosetImage{}, &domain.ValidationError{Reason: "image_too_large", Message: domain.MsgImageTooLarge}
	}

	mediaType, ok := detectMediaType(data)
	if !ok {
		return domain.ClosetImage{}, &domain.ValidationError{Reason: "unsupported_image", Message: domain.MsgUnsupportedImage}
	}

	return domain.ClosetImage{
		Filename:  filepath.Base(filename),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

// detectMediaType sniffs the content. The file name plays no part, so a
// renamed text file is rejected.
func detectMediaType(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for _, accepted := range mediaTypes {
		if mt.Is(accepted) {
			return accepted, true
		}
	}
	return "", false
}
