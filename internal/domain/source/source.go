// Package source holds the read models for the legacy OpenCart catalog.
// Everything here is read-only: the sync never mutates the source schema.
package source

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a row from oc_product joined with its localized description.
type Product struct {
	ID               int64
	Model            string
	Price            decimal.Decimal
	Image            string
	ManufacturerID   int64
	ManufacturerName string
	Description      string
	MetaDescription  string
	Categories       []string
}

// OptionValue is one selectable value of an option, with its signed price
// delta (the OpenCart price_prefix already folded into the sign).
type OptionValue struct {
	Name       string
	PriceDelta decimal.Decimal
}

// Option is one configurable axis of a product. Values keep the order the
// source returns them in; that order defines combination ordering downstream.
type Option struct {
	ProductOptionID int64
	Name            string
	Values          []OptionValue
}

// Reader provides read access to the source catalog.
//
// ProductIDAtRank pages products by offset into the set of distinct products
// declaring at least one option, ordered by product id ascending. That
// ordering is only stable while the source table is not concurrently
// mutated; rows inserted or deleted mid-run can make a rank skip or repeat
// a product. The original integration behaves the same way and this is
// kept as a documented limitation.
type Reader interface {
	// ProductIDAtRank returns the external id of the nth (0-based) distinct
	// product with at least one option, or shared.ErrNotFound if the rank
	// exceeds the count.
	ProductIDAtRank(ctx context.Context, rank int) (int64, error)

	// CountProductsWithOptions returns the number of distinct products
	// declaring at least one option.
	CountProductsWithOptions(ctx context.Context) (int, error)

	// ProductByID returns the product's base fields, localized description,
	// category names and manufacturer name, or shared.ErrNotFound if the id
	// no longer resolves.
	ProductByID(ctx context.Context, id int64) (*Product, error)

	// OptionsByProductID returns the product's options in source table
	// order, each with its values in source order.
	OptionsByProductID(ctx context.Context, id int64) ([]Option, error)
}
