package sync

import (
	"context"
	"errors"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/cartbridge/backend/internal/domain/source"
	"go.uber.org/zap"
)

// brandSlug is the global attribute the manufacturer name is assigned
// under.
const brandSlug = "brand"

// resolveProduct finds the target product linked to the source external id,
// creating it from the source fields on first sight. Image import is best
// effort: a failed download or upload is logged and never blocks creation.
func (s *Service) resolveProduct(ctx context.Context, src *source.Product) (*catalog.Product, error) {
	product, err := s.products.FindByExternalID(ctx, src.ID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err = catalog.NewProduct(src.ID, src.Model, src.Price)
	if err != nil {
		return nil, err
	}

	if s.media != nil && src.Image != "" {
		key, imgErr := s.media.ImportProductImage(ctx, src.ID, src.Image)
		if imgErr != nil {
			s.logger.Warn("product image import failed",
				zap.Int64("external_id", src.ID),
				zap.String("image", src.Image),
				zap.Error(imgErr))
		} else {
			product.SetImageKey(key)
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// syncProductDetails overwrites the simple fields on every step:
// description, categories and brand. The overwrite is idempotent and never
// diffed, so repeating a step is safe.
func (s *Service) syncProductDetails(ctx context.Context, product *catalog.Product, src *source.Product) error {
	product.SyncDetails(src.Description, src.MetaDescription)
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}

	if len(src.Categories) > 0 {
		if err := s.products.ReplaceCategories(ctx, product.ID, src.Categories); err != nil {
			return err
		}
	}

	if src.ManufacturerName != "" {
		attr, err := s.attributes.EnsureAttribute(ctx, brandSlug, "Brand")
		if err != nil {
			return err
		}
		term, err := s.attributes.EnsureTerm(ctx, attr.ID, src.ManufacturerName)
		if err != nil {
			return err
		}
		if err := s.attributes.AssignTermToProduct(ctx, product.ID, attr.ID, term.ID); err != nil {
			return err
		}
	}
	return nil
}
