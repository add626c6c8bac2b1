package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxImageBytes caps a single sideloaded image. Source catalogs occasionally
// hold multi-megabyte originals; anything past this is refused rather than
// buffered.
const maxImageBytes = 16 << 20

// ObjectStore is the slice of object storage the importer needs.
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageImporter sideloads product images from the source shop's public image
// directory into object storage. Failures here are reported to the caller,
// which treats them as non-fatal.
type ImageImporter struct {
	baseURL string
	store   ObjectStore
	client  *http.Client
	logger  *zap.Logger
}

// NewImageImporter creates an importer fetching from baseURL (the source
// shop's image root, e.g. "https://shop.example.com/image") and writing to
// store.
func NewImageImporter(baseURL string, store ObjectStore, logger *zap.Logger) *ImageImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageImporter{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// ImportProductImage downloads the image at imagePath relative to the source
// image root and stores it under a product-scoped key, which it returns. An
// image already stored under that key is not fetched again.
func (i *ImageImporter) ImportProductImage(ctx context.Context, externalID int64, imagePath string) (string, error) {
	if imagePath == "" {
		return "", fmt.Errorf("image path is empty")
	}

	key := fmt.Sprintf("products/%d/%s", externalID, path.Base(imagePath))
	if exists, err := i.store.ObjectExists(ctx, key); err == nil && exists {
		i.logger.Debug("product image already stored",
			zap.Int64("external_id", externalID),
			zap.String("key", key))
		return key, nil
	}

	src := i.baseURL + "/" + escapePath(strings.TrimLeft(imagePath, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeForPath(imagePath)
	}

	if err := i.store.Upload(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	i.logger.Debug("imported product image",
		zap.Int64("external_id", externalID),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return key, nil
}

// escapePath escapes each path segment while keeping the separators, since
// source image paths like "catalog/demo/strat.jpg" span directories.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func contentTypeForPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
