package persistence

import (
	"context"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariationRepository implements catalog.VariationRepository using GORM
type GormVariationRepository struct {
	db *gorm.DB
}

// NewGormVariationRepository creates a new GormVariationRepository
func NewGormVariationRepository(db *gorm.DB) *GormVariationRepository {
	return &GormVariationRepository{db: db}
}

// DeleteByProduct wipes every variation of the product, values first so
// the delete works even where the cascade constraint is not enforced.
func (r *GormVariationRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subquery := tx.Model(&catalog.Variation{}).Select("id").Where("product_id = ?", productID)
		if err := tx.Where("variation_id IN (?)", subquery).Delete(&catalog.VariationValue{}).Error; err != nil {
			return err
		}
		return tx.Where("product_id = ?", productID).Delete(&catalog.Variation{}).Error
	})
}

// Create inserts a variation together with its attribute values
func (r *GormVariationRepository) Create(ctx context.Context, variation *catalog.Variation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}

// CountByProduct returns the number of variations of the product
func (r *GormVariationRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Variation{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// FindByProduct returns the product's variations with their values, in
// materialization order.
func (r *GormVariationRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variation, error) {
	var variations []catalog.Variation
	err := r.db.WithContext(ctx).
		Preload("Values").
		Where("product_id = ?", productID).
		Order("position").
		Find(&variations).Error
	return variations, err
}
