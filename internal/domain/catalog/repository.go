package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository persists target products and their category/term links.
type ProductRepository interface {
	// FindByExternalID returns the product linked to the source external id,
	// or shared.ErrNotFound.
	FindByExternalID(ctx context.Context, externalID int64) (*Product, error)
	Save(ctx context.Context, product *Product) error
	// ReplaceCategories sets the product's category assignments, creating
	// missing categories by name.
	ReplaceCategories(ctx context.Context, productID uuid.UUID, names []string) error
}

// AttributeRepository persists global attributes, their terms, and their
// attachment to products.
type AttributeRepository interface {
	// EnsureAttribute finds or creates the global attribute with the given
	// slug. Idempotent; concurrent callers race benignly (check-then-create,
	// last writer wins).
	EnsureAttribute(ctx context.Context, slug, name string) (*Attribute, error)
	// EnsureTerm finds or creates the term under the attribute.
	EnsureTerm(ctx context.Context, attributeID uuid.UUID, name string) (*AttributeTerm, error)
	// AssignTermToProduct links a term to the parent product (idempotent).
	AssignTermToProduct(ctx context.Context, productID, attributeID, termID uuid.UUID) error
	// ReplaceProductAttributes resets the product's variation schema to the
	// given attribute attachments, in order.
	ReplaceProductAttributes(ctx context.Context, productID uuid.UUID, attrs []ProductAttribute) error
}

// VariationRepository persists a product's materialized variations.
type VariationRepository interface {
	// DeleteByProduct wipes every variation of the product. Called on the
	// first chunk of each pass (full-replace semantics).
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	Create(ctx context.Context, variation *Variation) error
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Variation, error)
}
