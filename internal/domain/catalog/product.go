// Package catalog holds the target catalog aggregates the sync writes to:
// products linked to their source external id, global attributes with
// terms, and materialized variations.
package catalog

import (
	"time"

	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes simple products from variable (variation-
// bearing) ones.
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
)

// Product is the target-side product, created at most once per distinct
// source external id. RegularPrice is set from the source at creation and
// is the base every variation prices from; it is deliberately not
// overwritten by later sync steps so all variations of one product share a
// consistent base even if the source price changes mid-run.
type Product struct {
	shared.BaseEntity
	ExternalID       int64           `gorm:"not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(255);not null"`
	Description      string          `gorm:"type:text"`
	ShortDescription string          `gorm:"type:text"`
	RegularPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProductType      ProductType     `gorm:"type:varchar(20);not null;default:'simple'"`
	ImageKey         string          `gorm:"type:varchar(512)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a target product linked to a source external id.
func NewProduct(externalID int64, name string, price decimal.Decimal) (*Product, error) {
	if externalID <= 0 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External id must be positive")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		ExternalID:   externalID,
		Name:         name,
		RegularPrice: price,
		ProductType:  ProductTypeSimple,
	}, nil
}

// MarkVariable flags the product as variation-bearing.
func (p *Product) MarkVariable() {
	p.ProductType = ProductTypeVariable
	p.UpdatedAt = time.Now()
}

// SyncDetails overwrites the fields that are re-synced on every step.
// RegularPrice is intentionally excluded, see the type comment.
func (p *Product) SyncDetails(description, shortDescription string) {
	p.Description = description
	p.ShortDescription = shortDescription
	p.UpdatedAt = time.Now()
}

// SetImageKey records the object-storage key of the imported product image.
func (p *Product) SetImageKey(key string) {
	p.ImageKey = key
	p.UpdatedAt = time.Now()
}

// Category is a flat product category term, created on first use.
type Category struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}
