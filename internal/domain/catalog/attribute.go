package catalog

import (
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AttributeType is the selection model of an attribute. Only single-select
// exists today; the column keeps the door open without a migration.
type AttributeType string

const AttributeTypeSelect AttributeType = "select"

// Attribute is a global, catalog-wide taxonomy keyed by a slug derived from
// the source option name. It is created once and shared across every
// product that declares an option of that name.
type Attribute struct {
	shared.BaseEntity
	Slug          string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name          string        `gorm:"type:varchar(255);not null"`
	AttributeType AttributeType `gorm:"type:varchar(20);not null;default:'select'"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// NewAttribute creates a single-select global attribute.
func NewAttribute(slug, name string) (*Attribute, error) {
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Attribute slug cannot be empty")
	}
	if name == "" {
		name = slug
	}
	return &Attribute{
		BaseEntity:    shared.NewBaseEntity(),
		Slug:          slug,
		Name:          name,
		AttributeType: AttributeTypeSelect,
	}, nil
}

// AttributeTerm is a specific value under an attribute, created on first
// use and reused afterwards.
type AttributeTerm struct {
	shared.BaseEntity
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_term_attribute_name,priority:1"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_term_attribute_name,priority:2"`
}

// TableName returns the table name for GORM
func (AttributeTerm) TableName() string {
	return "attribute_terms"
}

// ProductAttribute attaches a global attribute to one product's variation
// schema. Position is the option's position in the source option order and
// fixes the axis order of combination generation.
type ProductAttribute struct {
	ProductID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position         int       `gorm:"not null;default:0"`
	Visible          bool      `gorm:"not null;default:true"`
	UsedForVariation bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// ProductAttributeTerm assigns an attribute term to the parent product,
// mirroring the source option's declared values.
type ProductAttributeTerm struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TermID      uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ProductAttributeTerm) TableName() string {
	return "product_attribute_terms"
}
