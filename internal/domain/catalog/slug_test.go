package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Size", "size"},
		{"Pickup Configuration", "pickup-configuration"},
		{"  Body   Color ", "body-color"},
		{"Cabinet/Speaker", "cabinet-speaker"},
		{"Größe", "grosse"},
		{"Finitión", "finition"},
		{"120V / 240V", "120v-240v"},
		{"UPPER_case-Mixed", "upper-case-mixed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestSlugifyDeterministicAndDistinct(t *testing.T) {
	assert.Equal(t, Slugify("Pickup Configuration"), Slugify("Pickup Configuration"))
	assert.NotEqual(t, Slugify("Size"), Slugify("Color"))
}
