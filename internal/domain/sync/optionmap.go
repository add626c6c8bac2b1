package sync

import "github.com/shopspring/decimal"

// OptionValues holds the ordered value labels of one option and the signed
// price delta applied when each value is selected.
type OptionValues struct {
	Values      []string
	PriceDeltas map[string]decimal.Decimal
}

// OptionMap is an ordered mapping from option name to its values. Iteration
// order is insertion order (= source option table order); it defines the
// axis order of combination generation and therefore chunk boundaries, so
// it must never depend on map iteration.
type OptionMap struct {
	names  []string
	byName map[string]OptionValues
}

// NewOptionMap returns an empty option map.
func NewOptionMap() *OptionMap {
	return &OptionMap{byName: make(map[string]OptionValues)}
}

// Set adds or replaces an option. A replaced option keeps its original
// position in the iteration order.
func (m *OptionMap) Set(name string, values OptionValues) {
	if _, ok := m.byName[name]; !ok {
		m.names = append(m.names, name)
	}
	m.byName[name] = values
}

// Get returns the values for an option name.
func (m *OptionMap) Get(name string) (OptionValues, bool) {
	v, ok := m.byName[name]
	return v, ok
}

// Names returns the option names in insertion order.
func (m *OptionMap) Names() []string {
	return m.names
}

// Len returns the number of options.
func (m *OptionMap) Len() int {
	return len(m.names)
}

// ValueLists returns the ordered list of value-lists, one per option, in
// option order. This is the input to Cartesian.
func (m *OptionMap) ValueLists() [][]string {
	lists := make([][]string, 0, len(m.names))
	for _, name := range m.names {
		lists = append(lists, m.byName[name].Values)
	}
	return lists
}

// PriceDelta returns the signed delta for selecting value under option name,
// or zero if unknown.
func (m *OptionMap) PriceDelta(name, value string) decimal.Decimal {
	if v, ok := m.byName[name]; ok {
		if d, ok := v.PriceDeltas[value]; ok {
			return d
		}
	}
	return decimal.Zero
}
