package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	infraconfig "github.com/cartbridge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ObjectStorageValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *infraconfig.StorageConfig
	}{
		{"nil config", nil},
		{"missing bucket", &infraconfig.StorageConfig{AccessKey: "k", SecretKey: "s"}},
		{"missing access key", &infraconfig.StorageConfig{Bucket: "media", SecretKey: "s"}},
		{"missing secret key", &infraconfig.StorageConfig{Bucket: "media", AccessKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewS3ObjectStorageWithEndpoint(t *testing.T) {
	store, err := NewS3ObjectStorage(&infraconfig.StorageConfig{
		Endpoint:  "minio.internal:9000",
		Bucket:    "media",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "media", store.GetBucket())
}

type captureStore struct {
	key         string
	data        []byte
	contentType string
	err         error
	existing    map[string]bool
}

func (c *captureStore) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if c.err != nil {
		return c.err
	}
	c.key = key
	c.data = data
	c.contentType = contentType
	return nil
}

func (c *captureStore) ObjectExists(_ context.Context, key string) (bool, error) {
	return c.existing[key], nil
}

func TestImageImporterImportsImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog/demo/strat.jpg", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	store := &captureStore{}
	importer := NewImageImporter(srv.URL, store, nil)

	key, err := importer.ImportProductImage(context.Background(), 101, "catalog/demo/strat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/101/strat.jpg", key)
	assert.Equal(t, key, store.key)
	assert.Equal(t, []byte("jpeg-bytes"), store.data)
	assert.Equal(t, "image/jpeg", store.contentType)
}

func TestImageImporterSkipsExistingObject(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	store := &captureStore{existing: map[string]bool{"products/101/strat.jpg": true}}
	importer := NewImageImporter(srv.URL, store, nil)

	key, err := importer.ImportProductImage(context.Background(), 101, "catalog/demo/strat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/101/strat.jpg", key)
	assert.Zero(t, fetches, "stored image is not downloaded again")
	assert.Empty(t, store.key, "no re-upload")
}

func TestImageImporterGuessesContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0x89, 0x50})
	}))
	defer srv.Close()

	store := &captureStore{}
	importer := NewImageImporter(srv.URL, store, nil)

	_, err := importer.ImportProductImage(context.Background(), 7, "catalog/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", store.contentType)
}

func TestImageImporterRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	importer := NewImageImporter(srv.URL, &captureStore{}, nil)

	_, err := importer.ImportProductImage(context.Background(), 7, "catalog/missing.jpg")
	assert.ErrorContains(t, err, "status 404")
}

func TestImageImporterRejectsEmptyPath(t *testing.T) {
	importer := NewImageImporter("http://example.com/image", &captureStore{}, nil)
	_, err := importer.ImportProductImage(context.Background(), 7, "")
	assert.Error(t, err)
}
