package persistence

import (
	"context"
	"errors"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttributeRepository implements catalog.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// EnsureAttribute finds or creates the global attribute with the given
// slug. Creation is guarded by check-then-create; a concurrent creator
// losing the race falls back to re-reading the winner's row.
func (r *GormAttributeRepository) EnsureAttribute(ctx context.Context, slug, name string) (*catalog.Attribute, error) {
	var attr catalog.Attribute
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&attr).Error
	if err == nil {
		return &attr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := catalog.NewAttribute(slug, name)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// Lost the race to another run: the unique index on slug holds, so
		// the existing row is authoritative.
		var existing catalog.Attribute
		if ferr := r.db.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return created, nil
}

// EnsureTerm finds or creates the term under the attribute
func (r *GormAttributeRepository) EnsureTerm(ctx context.Context, attributeID uuid.UUID, name string) (*catalog.AttributeTerm, error) {
	var term catalog.AttributeTerm
	err := r.db.WithContext(ctx).
		Where("attribute_id = ? AND name = ?", attributeID, name).
		First(&term).Error
	if err == nil {
		return &term, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := catalog.AttributeTerm{
		BaseEntity:  shared.NewBaseEntity(),
		AttributeID: attributeID,
		Name:        name,
	}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		var existing catalog.AttributeTerm
		if ferr := r.db.WithContext(ctx).
			Where("attribute_id = ? AND name = ?", attributeID, name).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &created, nil
}

// AssignTermToProduct links a term to the parent product (idempotent)
func (r *GormAttributeRepository) AssignTermToProduct(ctx context.Context, productID, attributeID, termID uuid.UUID) error {
	row := catalog.ProductAttributeTerm{
		ProductID:   productID,
		AttributeID: attributeID,
		TermID:      termID,
	}
	return r.db.WithContext(ctx).FirstOrCreate(&row, row).Error
}

// ReplaceProductAttributes resets the product's variation schema
func (r *GormAttributeRepository) ReplaceProductAttributes(ctx context.Context, productID uuid.UUID, attrs []catalog.ProductAttribute) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&catalog.ProductAttribute{}).Error; err != nil {
			return err
		}
		if len(attrs) == 0 {
			return nil
		}
		return tx.Create(&attrs).Error
	})
}
