// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestProduct_CanPreorder(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{
			name:    "preorder disabled",
			product: Product{IsPreorderEnabled: false},
			want:    false,
		},
		{
			name:    "enabled without limit",
			product: Product{IsPreorderEnabled: true},
			want:    true,
		},
		{
			name:    "enabled under limit",
			product: Product{IsPreorderEnabled: true, PreorderLimit: intPtr(100), PreorderCount: 99},
			want:    true,
		},
		{
			name:    "limit reached",
			product: Product{IsPreorderEnabled: true, PreorderLimit: intPtr(100), PreorderCount: 100},
			want:    false,
		},
		{
			name:    "limit exceeded",
			product: Product{IsPreorderEnabled: true, PreorderLimit: intPtr(100), PreorderCount: 101},
			want:    false,
		},
		{
			name:    "limit reached while disabled",
			product: Product{IsPreorderEnabled: false, PreorderLimit: intPtr(10), PreorderCount: 10},
			want:    false,
		},
		{
			name:    "zero limit",
			product: Product{IsPreorderEnabled: true, PreorderLimit: intPtr(0), PreorderCount: 0},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.CanPreorder())
		})
	}
}

func TestProduct_CanReserve(t *testing.T) {
	unlimited := Product{IsPreorderEnabled: true}
	assert.True(t, unlimited.CanReserve(500))

	p := Product{IsPreorderEnabled: true, PreorderLimit: intPtr(10), PreorderCount: 8}
	assert.True(t, p.CanReserve(2))
	assert.False(t, p.CanReserve(3))

	full := Product{IsPreorderEnabled: true, PreorderLimit: intPtr(10), PreorderCount: 10}
	assert.False(t, full.CanReserve(1))
}

func TestProduct_PreorderRemaining(t *testing.T) {
	assert.Equal(t, -1, (&Product{}).PreorderRemaining())
	assert.Equal(t, 40, (&Product{PreorderLimit: intPtr(100), PreorderCount: 60}).PreorderRemaining())
	assert.Equal(t, 0, (&Product{PreorderLimit: intPtr(100), PreorderCount: 120}).PreorderRemaining())
}

func TestProduct_StockHelpers(t *testing.T) {
	tracked := Product{TrackInventory: true, StockQuantity: 3, LowStockThreshold: 5}
	assert.True(t, tracked.IsInStock())
	assert.True(t, tracked.IsLowStock())

	tracked.StockQuantity = 0
	assert.False(t, tracked.IsInStock())
	assert.False(t, tracked.IsLowStock())

	untracked := Product{TrackInventory: false, StockQuantity: 0}
	assert.True(t, untracked.IsInStock())
	assert.False(t, untracked.IsLowStock())
}
