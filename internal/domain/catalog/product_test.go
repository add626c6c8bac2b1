package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(42, "Stratocaster", decimal.NewFromInt(799))
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ExternalID)
	assert.Equal(t, ProductTypeSimple, p.ProductType)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.True(t, p.RegularPrice.Equal(decimal.NewFromInt(799)))
}

func TestNewProductValidation(t *testing.T) {
	_, err := NewProduct(0, "name", decimal.Zero)
	assert.Error(t, err)

	_, err = NewProduct(1, "", decimal.Zero)
	assert.Error(t, err)
}

func TestProductMarkVariable(t *testing.T) {
	p, err := NewProduct(7, "Amp", decimal.NewFromInt(100))
	require.NoError(t, err)

	p.MarkVariable()
	assert.Equal(t, ProductTypeVariable, p.ProductType)
}

func TestProductSyncDetailsKeepsRegularPrice(t *testing.T) {
	p, err := NewProduct(7, "Amp", decimal.NewFromInt(100))
	require.NoError(t, err)

	p.SyncDetails("long description", "short")
	assert.Equal(t, "long description", p.Description)
	assert.Equal(t, "short", p.ShortDescription)
	assert.True(t, p.RegularPrice.Equal(decimal.NewFromInt(100)))
}
