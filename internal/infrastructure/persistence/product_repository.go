package persistence

import (
	"context"
	"errors"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductCategory is the join row between products and categories.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ProductCategory) TableName() string {
	return "product_categories"
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByExternalID finds the product linked to the given source external id
func (r *GormProductRepository) FindByExternalID(ctx context.Context, externalID int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save inserts or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReplaceCategories sets the product's category assignments, creating
// missing categories by name first.
func (r *GormProductRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := make([]ProductCategory, 0, len(names))
		for _, name := range names {
			var cat catalog.Category
			err := tx.Where("name = ?", name).First(&cat).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cat = catalog.Category{BaseEntity: shared.NewBaseEntity(), Name: name}
				err = tx.Create(&cat).Error
			}
			if err != nil {
				return err
			}
			rows = append(rows, ProductCategory{ProductID: productID, CategoryID: cat.ID})
		}

		if err := tx.Where("product_id = ?", productID).Delete(&ProductCategory{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
