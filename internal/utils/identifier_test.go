// internal/utils/identifier_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Walnut Desk Organizer", "walnut-desk-organizer"},
		{"punctuation", "Café \"Deluxe\" Set!", "caf-deluxe-set"},
		{"extra whitespace", "  Oak   Shelf  ", "oak-shelf"},
		{"already slugged", "oak-shelf", "oak-shelf"},
		{"symbols collapse", "50% Off -- Today", "50-off-today"},
		{"empty", "!!!", "product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("Furniture")
	require.NoError(t, err)
	assert.Regexp(t, `^FUR-[A-Z2-9]{8}$`, sku)

	// Short or non-alphabetic categories fall back to the generic prefix.
	sku, err = GenerateSKU("42")
	require.NoError(t, err)
	assert.Regexp(t, `^PRD-[A-Z2-9]{8}$`, sku)

	// Two generated SKUs should not collide.
	other, err := GenerateSKU("Furniture")
	require.NoError(t, err)
	assert.NotEqual(t, sku, other)
}

func TestGenerateBarcode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateBarcode()
		require.NoError(t, err)
		assert.Len(t, code, 13)
		assert.Equal(t, "200", code[:3])
		assert.True(t, ValidateBarcode(code), "check digit of %s", code)
		assert.False(t, seen[code], "duplicate barcode %s", code)
		seen[code] = true
	}
}

func TestValidateBarcode(t *testing.T) {
	// Known-good EAN-13 (check digit 1).
	assert.True(t, ValidateBarcode("4006381333931"))

	assert.False(t, ValidateBarcode("4006381333932"))
	assert.False(t, ValidateBarcode("400638133393"))
	assert.False(t, ValidateBarcode("40063813339x1"))
	assert.False(t, ValidateBarcode(""))
}
