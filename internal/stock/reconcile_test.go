// internal/stock/reconcile_test.go
package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
)

func newProduct(status models.ProductStatus, qty int) *models.Product {
	p := &models.Product{
		Name:           "Walnut Desk Organizer",
		SKU:            "FUR-7Q2M9X1B",
		Status:         status,
		StockQuantity:  qty,
		TrackInventory: true,
	}
	p.ID = uuid.New()
	return p
}

func eventNames(evts []events.Event) []string {
	names := make([]string, 0, len(evts))
	for _, e := range evts {
		names = append(names, e.Name())
	}
	return names
}

func TestReconcile_StockDepleted(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 5)

	evts := Reconcile(p, 5, 0, models.StockOperationSale, "order fulfilled")

	assert.Equal(t, 0, p.StockQuantity)
	assert.Equal(t, models.ProductStatusOutOfStock, p.Status)
	assert.True(t, p.IsPreorderEnabled)
	assert.True(t, p.PreorderAutoEnabled)
	assert.NotNil(t, p.PreorderEnabledAt)

	assert.Equal(t, []string{
		events.StockUpdatedEventName,
		events.StatusChangedEventName,
		events.OutOfStockEventName,
		events.PreorderEnabledEventName,
	}, eventNames(evts))

	oos, ok := evts[2].(events.OutOfStock)
	require.True(t, ok)
	assert.Equal(t, 5, oos.PreviousStock)
	assert.Equal(t, ReasonStockDepleted, oos.Reason)

	enabled, ok := evts[3].(events.PreorderEnabled)
	require.True(t, ok)
	assert.True(t, enabled.IsAutomatic)
}

func TestReconcile_BackInStock(t *testing.T) {
	p := newProduct(models.ProductStatusOutOfStock, 0)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = true

	evts := Reconcile(p, 0, 10, models.StockOperationRestock, "warehouse delivery")

	assert.Equal(t, 10, p.StockQuantity)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.False(t, p.IsPreorderEnabled)
	assert.False(t, p.PreorderAutoEnabled)
	assert.Equal(t, ReasonBackInStock, p.PreorderDisabledReason)

	assert.Equal(t, []string{
		events.StockUpdatedEventName,
		events.BackInStockEventName,
		events.PreorderDisabledEventName,
		events.StatusChangedEventName,
	}, eventNames(evts))

	bis, ok := evts[1].(events.BackInStock)
	require.True(t, ok)
	assert.Equal(t, 10, bis.NewStock)
	assert.Equal(t, 0, bis.PreviousStock)

	disabled, ok := evts[2].(events.PreorderDisabled)
	require.True(t, ok)
	assert.True(t, disabled.IsAutomatic)
	assert.Equal(t, ReasonBackInStock, disabled.Reason)
}

func TestReconcile_BackInStockFromPreorderStatus(t *testing.T) {
	p := newProduct(models.ProductStatusPreorder, 0)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = true

	Reconcile(p, 0, 3, models.StockOperationRestock, "")

	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.False(t, p.IsPreorderEnabled)
}

func TestReconcile_ManualPreorderNotOverwritten(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 4)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = false
	limit := 50
	p.PreorderLimit = &limit
	p.PreorderTerms = "Ships within six weeks of release."

	evts := Reconcile(p, 4, 0, models.StockOperationSale, "")

	// Manual configuration survives the stockout untouched.
	assert.True(t, p.IsPreorderEnabled)
	assert.False(t, p.PreorderAutoEnabled)
	assert.Equal(t, &limit, p.PreorderLimit)
	assert.Equal(t, "Ships within six weeks of release.", p.PreorderTerms)
	assert.Nil(t, p.PreorderEnabledAt)

	assert.Equal(t, models.ProductStatusOutOfStock, p.Status)
	assert.NotContains(t, eventNames(evts), events.PreorderEnabledEventName)
}

func TestReconcile_ManualPreorderKeptOnRestock(t *testing.T) {
	p := newProduct(models.ProductStatusOutOfStock, 0)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = false

	evts := Reconcile(p, 0, 7, models.StockOperationRestock, "")

	// Only automatically enabled preorders are torn down on restock.
	assert.True(t, p.IsPreorderEnabled)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.NotContains(t, eventNames(evts), events.PreorderDisabledEventName)
}

func TestReconcile_UnchangedQuantityIsNoOp(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 3)

	evts := Reconcile(p, 3, 3, models.StockOperationSet, "")

	assert.Nil(t, evts)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.False(t, p.IsPreorderEnabled)
	assert.False(t, p.PreorderAutoEnabled)
}

func TestReconcile_PositiveToPositive(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 8)

	evts := Reconcile(p, 8, 2, models.StockOperationDecrement, "order fulfilled")

	require.Len(t, evts, 1)
	assert.Equal(t, events.StockUpdatedEventName, evts[0].Name())
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.False(t, p.IsPreorderEnabled)
}

func TestReconcile_InactiveStatusNotTouched(t *testing.T) {
	// Only active products transition to out_of_stock; draft/inactive/
	// discontinued stay under administrator control.
	for _, status := range []models.ProductStatus{
		models.ProductStatusDraft,
		models.ProductStatusInactive,
		models.ProductStatusDiscontinued,
	} {
		p := newProduct(status, 2)

		evts := Reconcile(p, 2, 0, models.StockOperationSale, "")

		assert.Equal(t, status, p.Status, "status %s", status)
		assert.NotContains(t, eventNames(evts), events.StatusChangedEventName)
		// Automatic preorder still kicks in regardless of status.
		assert.True(t, p.PreorderAutoEnabled, "status %s", status)
	}
}

func TestReconcile_OutOfStockStatusOnDepletionAgain(t *testing.T) {
	// Already out_of_stock, stock stays at zero via a different path: no
	// transition fires twice.
	p := newProduct(models.ProductStatusOutOfStock, 0)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = true

	evts := Reconcile(p, 0, 0, models.StockOperationSet, "")
	assert.Nil(t, evts)
	assert.True(t, p.IsPreorderEnabled)
}

func TestReevaluate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *models.Product)
		wantEvents bool
	}{
		{
			name:       "eligible stockout",
			mutate:     func(p *models.Product) {},
			wantEvents: true,
		},
		{
			name: "already preorder enabled",
			mutate: func(p *models.Product) {
				p.IsPreorderEnabled = true
				p.PreorderAutoEnabled = true
			},
			wantEvents: false,
		},
		{
			name: "inventory not tracked",
			mutate: func(p *models.Product) {
				p.TrackInventory = false
			},
			wantEvents: false,
		},
		{
			name: "stock present",
			mutate: func(p *models.Product) {
				p.StockQuantity = 12
			},
			wantEvents: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProduct(models.ProductStatusActive, 0)
			tt.mutate(p)

			evts := Reevaluate(p)

			if !tt.wantEvents {
				assert.Empty(t, evts)
				return
			}
			assert.True(t, p.IsPreorderEnabled)
			assert.True(t, p.PreorderAutoEnabled)
			assert.Equal(t, models.ProductStatusOutOfStock, p.Status)

			// Running again is a no-op.
			assert.Empty(t, Reevaluate(p))
		})
	}
}

func TestEnablePreorder_OutOfStockMovesToPreorderStatus(t *testing.T) {
	p := newProduct(models.ProductStatusOutOfStock, 0)
	limit := 25

	evts := EnablePreorder(p, ManualPreorderConfig{Limit: &limit, Message: "Ships in May."})

	assert.True(t, p.IsPreorderEnabled)
	assert.False(t, p.PreorderAutoEnabled)
	assert.Equal(t, models.ProductStatusPreorder, p.Status)
	assert.Equal(t, &limit, p.PreorderLimit)
	assert.NotNil(t, p.PreorderEnabledAt)

	assert.Equal(t, []string{
		events.PreorderEnabledEventName,
		events.StatusChangedEventName,
	}, eventNames(evts))

	enabled, ok := evts[0].(events.PreorderEnabled)
	require.True(t, ok)
	assert.False(t, enabled.IsAutomatic)
}

func TestEnablePreorder_InStockKeepsStatus(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 9)

	evts := EnablePreorder(p, ManualPreorderConfig{})

	assert.True(t, p.IsPreorderEnabled)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, []string{events.PreorderEnabledEventName}, eventNames(evts))
}

func TestDisableManualPreorder_RevertsPreorderStatus(t *testing.T) {
	p := newProduct(models.ProductStatusOutOfStock, 0)
	EnablePreorder(p, ManualPreorderConfig{})
	require.Equal(t, models.ProductStatusPreorder, p.Status)

	evts := DisableManualPreorder(p, "discontinuing line")

	assert.False(t, p.IsPreorderEnabled)
	assert.Equal(t, models.ProductStatusOutOfStock, p.Status)
	assert.Equal(t, "discontinuing line", p.PreorderDisabledReason)

	assert.Equal(t, []string{
		events.PreorderDisabledEventName,
		events.StatusChangedEventName,
	}, eventNames(evts))
}

func TestDisableManualPreorder_ActiveStatusUntouched(t *testing.T) {
	p := newProduct(models.ProductStatusActive, 6)
	EnablePreorder(p, ManualPreorderConfig{})

	evts := DisableManualPreorder(p, "")

	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, []string{events.PreorderDisabledEventName}, eventNames(evts))
}

func TestDisablePreorder(t *testing.T) {
	p := newProduct(models.ProductStatusOutOfStock, 0)
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = true

	evt := DisablePreorder(p, true, ReasonProductDeleted)

	assert.False(t, p.IsPreorderEnabled)
	assert.False(t, p.PreorderAutoEnabled)
	assert.Equal(t, ReasonProductDeleted, p.PreorderDisabledReason)

	disabled, ok := evt.(events.PreorderDisabled)
	require.True(t, ok)
	assert.Equal(t, ReasonProductDeleted, disabled.Reason)
}
