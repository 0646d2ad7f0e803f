// internal/events/events.go
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopsmith/storefront/internal/models"
)

// Event names
const (
	StockUpdatedEventName     = "stock.updated"
	OutOfStockEventName       = "product.out_of_stock"
	BackInStockEventName      = "product.back_in_stock"
	StatusChangedEventName    = "product.status_changed"
	PreorderEnabledEventName  = "preorder.enabled"
	PreorderDisabledEventName = "preorder.disabled"
)

// Event is a state-change payload produced by the stock reconciliation core.
// Events are returned to the write path and published after the enclosing
// transaction commits, never fired from inside model code.
type Event interface {
	Name() string
	Product() uuid.UUID
}

// Publisher delivers events to whatever sink is wired in (admin
// notifications, email, logging). A nil publisher is valid and drops events.
type Publisher interface {
	Publish(evts ...Event)
}

type StockUpdated struct {
	ProductID uuid.UUID             `json:"product_id"`
	OldStock  int                   `json:"old_stock"`
	NewStock  int                   `json:"new_stock"`
	Operation models.StockOperation `json:"operation"`
	Reason    string                `json:"reason,omitempty"`
}

func (e StockUpdated) Name() string       { return StockUpdatedEventName }
func (e StockUpdated) Product() uuid.UUID { return e.ProductID }

type OutOfStock struct {
	ProductID     uuid.UUID `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	Reason        string    `json:"reason"`
}

func (e OutOfStock) Name() string       { return OutOfStockEventName }
func (e OutOfStock) Product() uuid.UUID { return e.ProductID }

type BackInStock struct {
	ProductID     uuid.UUID `json:"product_id"`
	NewStock      int       `json:"new_stock"`
	PreviousStock int       `json:"previous_stock"`
}

func (e BackInStock) Name() string       { return BackInStockEventName }
func (e BackInStock) Product() uuid.UUID { return e.ProductID }

type StatusChanged struct {
	ProductID uuid.UUID            `json:"product_id"`
	OldStatus models.ProductStatus `json:"old_status"`
	NewStatus models.ProductStatus `json:"new_status"`
}

func (e StatusChanged) Name() string       { return StatusChangedEventName }
func (e StatusChanged) Product() uuid.UUID { return e.ProductID }

type PreorderEnabled struct {
	ProductID        uuid.UUID  `json:"product_id"`
	IsAutomatic      bool       `json:"is_automatic"`
	AvailabilityDate *time.Time `json:"availability_date,omitempty"`
	Reason           string     `json:"reason,omitempty"`
}

func (e PreorderEnabled) Name() string       { return PreorderEnabledEventName }
func (e PreorderEnabled) Product() uuid.UUID { return e.ProductID }

type PreorderDisabled struct {
	ProductID   uuid.UUID `json:"product_id"`
	IsAutomatic bool      `json:"is_automatic"`
	Reason      string    `json:"reason,omitempty"`
}

func (e PreorderDisabled) Name() string       { return PreorderDisabledEventName }
func (e PreorderDisabled) Product() uuid.UUID { return e.ProductID }
