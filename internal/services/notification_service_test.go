// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
)

func TestDescribeEvent(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name         string
		event        events.Event
		wantTitle    string
		wantPriority models.NotificationPriority
	}{
		{
			name: "stock updated",
			event: events.StockUpdated{
				ProductID: productID,
				OldStock:  10,
				NewStock:  4,
				Operation: models.StockOperationSale,
			},
			wantTitle:    "Stock updated",
			wantPriority: models.NotificationPriorityLow,
		},
		{
			name: "out of stock is high priority",
			event: events.OutOfStock{
				ProductID:     productID,
				PreviousStock: 4,
				Reason:        "stock_depleted",
			},
			wantTitle:    "Product out of stock",
			wantPriority: models.NotificationPriorityHigh,
		},
		{
			name: "back in stock",
			event: events.BackInStock{
				ProductID: productID,
				NewStock:  20,
			},
			wantTitle:    "Product back in stock",
			wantPriority: models.NotificationPriorityMedium,
		},
		{
			name: "automatic preorder enable",
			event: events.PreorderEnabled{
				ProductID:   productID,
				IsAutomatic: true,
			},
			wantTitle:    "Preorder enabled automatically",
			wantPriority: models.NotificationPriorityMedium,
		},
		{
			name: "manual preorder enable",
			event: events.PreorderEnabled{
				ProductID:   productID,
				IsAutomatic: false,
			},
			wantTitle:    "Preorder enabled",
			wantPriority: models.NotificationPriorityMedium,
		},
		{
			name: "preorder disabled with reason",
			event: events.PreorderDisabled{
				ProductID:   productID,
				IsAutomatic: true,
				Reason:      "back_in_stock",
			},
			wantTitle:    "Preorder disabled",
			wantPriority: models.NotificationPriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, message, priority := describeEvent(tt.event)
			assert.Equal(t, tt.wantTitle, title)
			assert.NotEmpty(t, message)
			assert.Equal(t, tt.wantPriority, priority)
		})
	}
}

func TestEventPayload(t *testing.T) {
	productID := uuid.New()
	payload := eventPayload(events.StockUpdated{
		ProductID: productID,
		OldStock:  5,
		NewStock:  0,
		Operation: models.StockOperationSale,
		Reason:    "order fulfilled",
	})

	assert.Equal(t, productID.String(), payload["product_id"])
	assert.Equal(t, float64(5), payload["old_stock"])
	assert.Equal(t, float64(0), payload["new_stock"])
	assert.Equal(t, "sale", payload["operation"])
	assert.Equal(t, "order fulfilled", payload["reason"])
}
