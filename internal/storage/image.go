package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps decoded uploads.
const MaxImageSize = 5 << 20

var (
	ErrInvalidImage     = errors.New("image must be a base64 data URL")
	ErrUnsupportedImage = errors.New("image type is not allowed")
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	SaveDataURL(ctx context.Context, folder, dataURL string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Extension   string
	Data        []byte
}

// DecodeDataURL parses "data:image/png;base64,<payload>". The decoded bytes
// must sniff as the declared type.
func DecodeDataURL(dataURL string) (*Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return nil, ErrInvalidImage
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidImage
	}
	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, ErrInvalidImage
	}

	ext, allowed := imageExtensions[strings.ToLower(contentType)]
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	contentType = strings.ToLower(contentType)
	if sniffed := http.DetectContentType(data); sniffed != contentType {
		return nil, fmt.Errorf("%w: declared %s, content is %s", ErrUnsupportedImage, contentType, sniffed)
	}

	return &Image{
		ContentType: contentType,
		Extension:   ext,
		Data:        data,
	}, nil
}

func objectKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)
}
