// internal/stock/reconcile.go

// Package stock holds the state-transition core for product inventory.
// Reconcile is a pure in-memory function: it mutates the product's fields and
// returns the events describing what changed, leaving persistence and event
// delivery to the caller. That keeps the business rules testable without a
// database and guarantees all mutations land in a single UPDATE.
package stock

import (
	"time"

	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
)

const (
	ReasonStockDepleted  = "stock_depleted"
	ReasonBackInStock    = "back_in_stock"
	ReasonProductDeleted = "product_deleted"
)

// Reconcile applies the stock-change rules for a quantity transition from
// oldQty to newQty. It sets p.StockQuantity and drives the status/preorder
// transitions:
//
//   - oldQty > 0, newQty == 0: out-of-stock handling (status active ->
//     out_of_stock, automatic preorder unless preorder is already enabled).
//   - oldQty == 0, newQty > 0: back-in-stock handling (automatic preorder
//     disabled if it was auto-enabled, status out_of_stock/preorder -> active).
//   - both positive or both zero: quantity update only.
//
// Calling with oldQty == newQty returns nil and leaves the product untouched.
func Reconcile(p *models.Product, oldQty, newQty int, op models.StockOperation, reason string) []events.Event {
	if oldQty == newQty {
		return nil
	}

	p.StockQuantity = newQty

	evts := []events.Event{events.StockUpdated{
		ProductID: p.ID,
		OldStock:  oldQty,
		NewStock:  newQty,
		Operation: op,
		Reason:    reason,
	}}

	switch {
	case oldQty > 0 && newQty == 0:
		evts = append(evts, markOutOfStock(p, oldQty)...)
	case oldQty == 0 && newQty > 0:
		evts = append(evts, markBackInStock(p, newQty)...)
	}

	return evts
}

// Reevaluate is the batch-job step for a product that is already at zero
// stock but was never transitioned (e.g. imported data, or a crash between
// write and reconcile). It is idempotent: products that are already
// preorder-enabled or not tracking inventory are left alone.
func Reevaluate(p *models.Product) []events.Event {
	if !p.TrackInventory || p.StockQuantity != 0 || p.IsPreorderEnabled {
		return nil
	}
	return markOutOfStock(p, 0)
}

// ManualPreorderConfig carries the administrator-provided settings for a
// manual preorder activation.
type ManualPreorderConfig struct {
	AvailableDate *time.Time
	Limit         *int
	Message       string
	Terms         string
}

// EnablePreorder applies a manual preorder activation. A product that is
// currently out of stock moves to the preorder status so the storefront can
// badge it; an in-stock product keeps its status.
func EnablePreorder(p *models.Product, cfg ManualPreorderConfig) []events.Event {
	now := time.Now()
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = false
	p.PreorderAvailableDate = cfg.AvailableDate
	p.PreorderLimit = cfg.Limit
	p.PreorderCount = 0
	p.PreorderMessage = cfg.Message
	p.PreorderTerms = cfg.Terms
	p.PreorderEnabledAt = &now
	p.PreorderDisabledReason = ""

	evts := []events.Event{events.PreorderEnabled{
		ProductID:        p.ID,
		IsAutomatic:      false,
		AvailabilityDate: cfg.AvailableDate,
	}}

	if p.Status == models.ProductStatusOutOfStock {
		old := p.Status
		p.Status = models.ProductStatusPreorder
		evts = append(evts, events.StatusChanged{
			ProductID: p.ID,
			OldStatus: old,
			NewStatus: p.Status,
		})
	}

	return evts
}

// DisableManualPreorder is the administrative deactivation. A product that
// was showing the preorder status drops back to out_of_stock, since its
// stock is still depleted.
func DisableManualPreorder(p *models.Product, reason string) []events.Event {
	evts := []events.Event{DisablePreorder(p, false, reason)}

	if p.Status == models.ProductStatusPreorder {
		old := p.Status
		p.Status = models.ProductStatusOutOfStock
		evts = append(evts, events.StatusChanged{
			ProductID: p.ID,
			OldStatus: old,
			NewStatus: p.Status,
		})
	}

	return evts
}

// DisablePreorder turns preorder off with a recorded reason. Used by the
// back-in-stock path, soft deletion and the admin disable operation.
func DisablePreorder(p *models.Product, automatic bool, reason string) events.Event {
	p.IsPreorderEnabled = false
	p.PreorderAutoEnabled = false
	p.PreorderDisabledReason = reason

	return events.PreorderDisabled{
		ProductID:   p.ID,
		IsAutomatic: automatic,
		Reason:      reason,
	}
}

func markOutOfStock(p *models.Product, previousStock int) []events.Event {
	var evts []events.Event

	if p.Status == models.ProductStatusActive {
		old := p.Status
		p.Status = models.ProductStatusOutOfStock
		evts = append(evts, events.StatusChanged{
			ProductID: p.ID,
			OldStatus: old,
			NewStatus: p.Status,
		})
	}

	evts = append(evts, events.OutOfStock{
		ProductID:     p.ID,
		PreviousStock: previousStock,
		Reason:        ReasonStockDepleted,
	})

	// A manually configured preorder is never overwritten here: the enable
	// branch only runs when preorder is off entirely.
	if !p.IsPreorderEnabled {
		evts = append(evts, enableAutomaticPreorder(p))
	}

	return evts
}

func markBackInStock(p *models.Product, newStock int) []events.Event {
	evts := []events.Event{events.BackInStock{
		ProductID:     p.ID,
		NewStock:      newStock,
		PreviousStock: 0,
	}}

	if p.PreorderAutoEnabled {
		evts = append(evts, DisablePreorder(p, true, ReasonBackInStock))
	}

	if p.Status == models.ProductStatusOutOfStock || p.Status == models.ProductStatusPreorder {
		old := p.Status
		p.Status = models.ProductStatusActive
		evts = append(evts, events.StatusChanged{
			ProductID: p.ID,
			OldStatus: old,
			NewStatus: p.Status,
		})
	}

	return evts
}

func enableAutomaticPreorder(p *models.Product) events.Event {
	now := time.Now()
	p.IsPreorderEnabled = true
	p.PreorderAutoEnabled = true
	p.PreorderEnabledAt = &now
	p.PreorderDisabledReason = ""

	return events.PreorderEnabled{
		ProductID:   p.ID,
		IsAutomatic: true,
		Reason:      ReasonStockDepleted,
	}
}
