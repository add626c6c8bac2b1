package catalog

import (
	"strings"

	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variation is one materialized combination of a variable product: exactly
// one value per attribute the product declares, plus the computed price.
// No two variations of the same product may share an identical assignment;
// SelectionKey is the canonical encoding enforcing that.
type Variation struct {
	shared.BaseEntity
	ProductID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Price        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Position     int              `gorm:"not null;default:0"`
	SelectionKey string           `gorm:"type:varchar(1024);not null;uniqueIndex:idx_variation_selection"`
	Values       []VariationValue `gorm:"foreignKey:VariationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Variation) TableName() string {
	return "variations"
}

// VariationValue is one attribute assignment of a variation.
type VariationValue struct {
	VariationID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeSlug string    `gorm:"type:varchar(200);primaryKey"`
	Value         string    `gorm:"type:varchar(255);not null"`
	Position      int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (VariationValue) TableName() string {
	return "variation_values"
}

// Selection is an ordered attribute assignment: slugs and values share
// indexes, in attribute (option) order.
type Selection struct {
	Slugs  []string
	Values []string
}

// Key returns the canonical encoding of the selection, prefixed with the
// product id so the uniqueness index scopes per product.
func (s Selection) Key(productID uuid.UUID) string {
	var b strings.Builder
	b.WriteString(productID.String())
	for i, slug := range s.Slugs {
		b.WriteByte('|')
		b.WriteString(slug)
		b.WriteByte('=')
		b.WriteString(s.Values[i])
	}
	return b.String()
}

// NewVariation builds a variation for the given product from an ordered
// selection and its computed price.
func NewVariation(productID uuid.UUID, sel Selection, price decimal.Decimal, position int) (*Variation, error) {
	if len(sel.Slugs) == 0 || len(sel.Slugs) != len(sel.Values) {
		return nil, shared.NewDomainError("INVALID_SELECTION", "Variation selection must assign a value to every attribute")
	}
	v := &Variation{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		Price:        price,
		Position:     position,
		SelectionKey: sel.Key(productID),
	}
	for i, slug := range sel.Slugs {
		v.Values = append(v.Values, VariationValue{
			VariationID:   v.ID,
			AttributeSlug: slug,
			Value:         sel.Values[i],
			Position:      i,
		})
	}
	return v, nil
}
