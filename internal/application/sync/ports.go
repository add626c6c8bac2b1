package sync

import "context"

// MediaImporter imports a source product image into the target media store.
// Implementations download the image from the source and return the storage
// key it was persisted under.
type MediaImporter interface {
	ImportProductImage(ctx context.Context, externalID int64, imagePath string) (string, error)
}
