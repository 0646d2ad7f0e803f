// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopsmith/storefront/internal/utils"
)

func TestCreateProductRequestValidation(t *testing.T) {
	base := CreateProductRequest{
		Name:        "Walnut Desk Organizer",
		Description: "Solid walnut organizer with felt lining.",
		Category:    "Furniture",
		Price:       49.90,
	}

	assert.NoError(t, utils.ValidateStruct(&base))

	withOverrides := base
	withOverrides.SKU = "FUR-7Q2M9X1B"
	withOverrides.Slug = "walnut-desk-organizer"
	assert.NoError(t, utils.ValidateStruct(&withOverrides))

	badSKU := base
	badSKU.SKU = "fur_123"
	assert.Error(t, utils.ValidateStruct(&badSKU))

	badSlug := base
	badSlug.Slug = "Walnut Desk"
	assert.Error(t, utils.ValidateStruct(&badSlug))
}
