package sync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOptionMapPreservesInsertionOrder(t *testing.T) {
	m := NewOptionMap()
	m.Set("Size", OptionValues{Values: []string{"S", "M", "L"}})
	m.Set("Color", OptionValues{Values: []string{"Red", "Blue"}})
	m.Set("Material", OptionValues{Values: []string{"Wood"}})

	assert.Equal(t, []string{"Size", "Color", "Material"}, m.Names())
	assert.Equal(t, [][]string{
		{"S", "M", "L"},
		{"Red", "Blue"},
		{"Wood"},
	}, m.ValueLists())
}

func TestOptionMapSetReplacesInPlace(t *testing.T) {
	m := NewOptionMap()
	m.Set("Size", OptionValues{Values: []string{"S"}})
	m.Set("Color", OptionValues{Values: []string{"Red"}})
	m.Set("Size", OptionValues{Values: []string{"S", "M"}})

	assert.Equal(t, []string{"Size", "Color"}, m.Names())
	v, ok := m.Get("Size")
	assert.True(t, ok)
	assert.Equal(t, []string{"S", "M"}, v.Values)
}

func TestOptionMapPriceDelta(t *testing.T) {
	m := NewOptionMap()
	m.Set("Size", OptionValues{
		Values: []string{"S", "M", "L"},
		PriceDeltas: map[string]decimal.Decimal{
			"S": decimal.Zero,
			"M": decimal.NewFromInt(2),
			"L": decimal.NewFromInt(-4),
		},
	})

	assert.True(t, m.PriceDelta("Size", "M").Equal(decimal.NewFromInt(2)))
	assert.True(t, m.PriceDelta("Size", "L").Equal(decimal.NewFromInt(-4)))
	assert.True(t, m.PriceDelta("Size", "XL").IsZero())
	assert.True(t, m.PriceDelta("Color", "Red").IsZero())
}
