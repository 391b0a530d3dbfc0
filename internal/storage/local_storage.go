package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/foodgram-backend/pkg/logger"
)

// LocalStorage writes images under a media root served at mediaURL.
type LocalStorage struct {
	root     string
	mediaURL string
}

func NewLocalStorage(root, mediaURL string) *LocalStorage {
	return &LocalStorage{
		root:     root,
		mediaURL: strings.TrimRight(mediaURL, "/"),
	}
}

func (s *LocalStorage) SaveDataURL(_ context.Context, folder, dataURL string) (string, error) {
	img, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	key := objectKey(folder, img.Extension)
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logger.Debug("Image stored on disk", map[string]interface{}{
		"key":  key,
		"size": len(img.Data),
	})
	return s.mediaURL + "/" + key, nil
}

// Delete removes a file previously returned by SaveDataURL. URLs outside
// the media prefix are ignored.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.mediaURL+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
