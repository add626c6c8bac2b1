package sync

import (
	"context"

	"github.com/cartbridge/backend/internal/domain/catalog"
	syncdom "github.com/cartbridge/backend/internal/domain/sync"
)

// chunkOutcome reports the combination arithmetic of one materialized
// chunk.
type chunkOutcome struct {
	total      int
	nextOffset int
	hasMore    bool
}

// materializeChunk writes one bounded chunk of the product's variation
// list.
//
// On the first chunk (variationOffset == 0) the product is marked variable,
// its attribute schema is replaced, and every existing variation is
// deleted: full-replace semantics, the prior set is wiped, never diffed.
// A run abandoned mid-product therefore leaves a partial variation set
// until the next offset-0 pass regenerates it; the wipe-and-rebuild is not
// atomic across chunks, only within one.
//
// The full combination list is recomputed on every call (the server holds
// no state), so cost is O(total combinations) per chunk, not O(chunk).
func (s *Service) materializeChunk(
	ctx context.Context,
	product *catalog.Product,
	options *syncdom.OptionMap,
	bindings []attributeBinding,
	variationOffset int,
) (*chunkOutcome, error) {
	if variationOffset == 0 {
		product.MarkVariable()
		if err := s.products.Save(ctx, product); err != nil {
			return nil, err
		}

		attrs := make([]catalog.ProductAttribute, 0, len(bindings))
		for i, b := range bindings {
			attrs = append(attrs, catalog.ProductAttribute{
				ProductID:        product.ID,
				AttributeID:      b.attribute.ID,
				Position:         i,
				Visible:          true,
				UsedForVariation: true,
			})
		}
		if err := s.attributes.ReplaceProductAttributes(ctx, product.ID, attrs); err != nil {
			return nil, err
		}

		if err := s.variations.DeleteByProduct(ctx, product.ID); err != nil {
			return nil, err
		}
	}

	combos := syncdom.Cartesian(options.ValueLists())
	chunk := syncdom.SliceChunk(combos, variationOffset, s.chunkSize)

	slugs := make([]string, len(bindings))
	for i, b := range bindings {
		slugs[i] = b.attribute.Slug
	}

	for i, combo := range chunk {
		price := product.RegularPrice
		for axis, name := range options.Names() {
			price = price.Add(options.PriceDelta(name, combo[axis]))
		}

		variation, err := catalog.NewVariation(product.ID, catalog.Selection{
			Slugs:  slugs,
			Values: combo,
		}, price, variationOffset+i)
		if err != nil {
			return nil, err
		}
		if err := s.variations.Create(ctx, variation); err != nil {
			return nil, err
		}
	}

	nextOffset := variationOffset + len(chunk)
	return &chunkOutcome{
		total:      len(combos),
		nextOffset: nextOffset,
		hasMore:    nextOffset < len(combos),
	}, nil
}
