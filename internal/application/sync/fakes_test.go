package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/cartbridge/backend/internal/domain/source"
	"github.com/google/uuid"
)

// fakeReader serves a fixed source catalog from memory.
type fakeReader struct {
	products map[int64]*source.Product
	options  map[int64][]source.Option
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		products: make(map[int64]*source.Product),
		options:  make(map[int64][]source.Option),
	}
}

func (r *fakeReader) rankedIDs() []int64 {
	// Presence of a key models option rows in the source join table, even
	// when the value list has since been emptied.
	ids := make([]int64, 0, len(r.options))
	for id := range r.options {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *fakeReader) ProductIDAtRank(_ context.Context, rank int) (int64, error) {
	ids := r.rankedIDs()
	if rank < 0 || rank >= len(ids) {
		return 0, shared.ErrNotFound
	}
	return ids[rank], nil
}

func (r *fakeReader) CountProductsWithOptions(_ context.Context) (int, error) {
	return len(r.rankedIDs()), nil
}

func (r *fakeReader) ProductByID(_ context.Context, id int64) (*source.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeReader) OptionsByProductID(_ context.Context, id int64) ([]source.Option, error) {
	return r.options[id], nil
}

// memCatalog is an in-memory target catalog implementing the three
// repository interfaces. It enforces the same uniqueness rules as the
// database schema.
type memCatalog struct {
	byExternal map[int64]*catalog.Product
	attributes map[string]*catalog.Attribute
	terms      map[uuid.UUID]map[string]*catalog.AttributeTerm
	prodAttrs  map[uuid.UUID][]catalog.ProductAttribute
	assigned   map[string]bool
	categories map[uuid.UUID][]string
	variations map[uuid.UUID][]catalog.Variation

	variationCreates int
	variationWipes   int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		byExternal: make(map[int64]*catalog.Product),
		attributes: make(map[string]*catalog.Attribute),
		terms:      make(map[uuid.UUID]map[string]*catalog.AttributeTerm),
		prodAttrs:  make(map[uuid.UUID][]catalog.ProductAttribute),
		assigned:   make(map[string]bool),
		categories: make(map[uuid.UUID][]string),
		variations: make(map[uuid.UUID][]catalog.Variation),
	}
}

func (m *memCatalog) FindByExternalID(_ context.Context, externalID int64) (*catalog.Product, error) {
	p, ok := m.byExternal[externalID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *memCatalog) Save(_ context.Context, product *catalog.Product) error {
	m.byExternal[product.ExternalID] = product
	return nil
}

func (m *memCatalog) ReplaceCategories(_ context.Context, productID uuid.UUID, names []string) error {
	m.categories[productID] = append([]string(nil), names...)
	return nil
}

func (m *memCatalog) EnsureAttribute(_ context.Context, slug, name string) (*catalog.Attribute, error) {
	if attr, ok := m.attributes[slug]; ok {
		return attr, nil
	}
	attr, err := catalog.NewAttribute(slug, name)
	if err != nil {
		return nil, err
	}
	m.attributes[slug] = attr
	m.terms[attr.ID] = make(map[string]*catalog.AttributeTerm)
	return attr, nil
}

func (m *memCatalog) EnsureTerm(_ context.Context, attributeID uuid.UUID, name string) (*catalog.AttributeTerm, error) {
	terms, ok := m.terms[attributeID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if term, ok := terms[name]; ok {
		return term, nil
	}
	term := &catalog.AttributeTerm{
		BaseEntity:  shared.NewBaseEntity(),
		AttributeID: attributeID,
		Name:        name,
	}
	terms[name] = term
	return term, nil
}

func (m *memCatalog) AssignTermToProduct(_ context.Context, productID, attributeID, termID uuid.UUID) error {
	m.assigned[productID.String()+"/"+attributeID.String()+"/"+termID.String()] = true
	return nil
}

func (m *memCatalog) ReplaceProductAttributes(_ context.Context, productID uuid.UUID, attrs []catalog.ProductAttribute) error {
	m.prodAttrs[productID] = append([]catalog.ProductAttribute(nil), attrs...)
	return nil
}

func (m *memCatalog) DeleteByProduct(_ context.Context, productID uuid.UUID) error {
	m.variationWipes++
	delete(m.variations, productID)
	return nil
}

func (m *memCatalog) Create(_ context.Context, variation *catalog.Variation) error {
	for _, existing := range m.variations[variation.ProductID] {
		if existing.SelectionKey == variation.SelectionKey {
			return fmt.Errorf("duplicate variation selection %q", variation.SelectionKey)
		}
	}
	m.variationCreates++
	m.variations[variation.ProductID] = append(m.variations[variation.ProductID], *variation)
	return nil
}

func (m *memCatalog) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	return int64(len(m.variations[productID])), nil
}

func (m *memCatalog) FindByProduct(_ context.Context, productID uuid.UUID) ([]catalog.Variation, error) {
	return append([]catalog.Variation(nil), m.variations[productID]...), nil
}

// brokenVariations fails every variation write, modelling a target
// database error mid-chunk.
type brokenVariations struct {
	*memCatalog
}

func (brokenVariations) Create(context.Context, *catalog.Variation) error {
	return fmt.Errorf("variation write failed")
}

// failingMedia always fails, for the best-effort import path.
type failingMedia struct{}

func (failingMedia) ImportProductImage(context.Context, int64, string) (string, error) {
	return "", fmt.Errorf("image host unreachable")
}

// recordingMedia records imports and returns a deterministic key.
type recordingMedia struct {
	imported []string
}

func (r *recordingMedia) ImportProductImage(_ context.Context, externalID int64, imagePath string) (string, error) {
	key := fmt.Sprintf("products/%d/%s", externalID, imagePath)
	r.imported = append(r.imported, key)
	return key, nil
}
