// Package sync holds the value objects of the chunked synchronization
// engine: the client-held cursor, the ordered option map, combination
// generation and the step state machine vocabulary.
package sync

import "fmt"

// Cursor identifies exactly where a resumable run currently stands.
// ProductOffset selects the nth distinct source product with options
// (0-based, ordered by external id ascending); VariationOffset is the
// starting index into that product's full combination list.
//
// The cursor is client-held: the server derives everything from it on each
// call and keeps no session state between steps.
type Cursor struct {
	ProductOffset   int
	VariationOffset int
}

// NextProduct returns the cursor positioned at the start of the next product.
func (c Cursor) NextProduct() Cursor {
	return Cursor{ProductOffset: c.ProductOffset + 1, VariationOffset: 0}
}

// WithVariationOffset returns the cursor advanced within the same product.
func (c Cursor) WithVariationOffset(offset int) Cursor {
	return Cursor{ProductOffset: c.ProductOffset, VariationOffset: offset}
}

// Validate rejects negative offsets.
func (c Cursor) Validate() error {
	if c.ProductOffset < 0 || c.VariationOffset < 0 {
		return fmt.Errorf("cursor offsets must be non-negative, got (%d, %d)",
			c.ProductOffset, c.VariationOffset)
	}
	return nil
}

func (c Cursor) String() string {
	return fmt.Sprintf("(product=%d, variation=%d)", c.ProductOffset, c.VariationOffset)
}
