// internal/models/product.go
package models

import (
	"time"

	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:280;not null"`
	SKU         string `json:"sku" gorm:"uniqueIndex;size:64;not null"`
	Barcode     string `json:"barcode" gorm:"uniqueIndex;size:13;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:100;index"`

	Price        float64  `json:"price" gorm:"type:decimal(10,2);not null"`
	ComparePrice *float64 `json:"compare_price,omitempty" gorm:"type:decimal(10,2)"`
	CostPrice    *float64 `json:"cost_price,omitempty" gorm:"type:decimal(10,2)"`

	StockQuantity     int  `json:"stock_quantity" gorm:"default:0;not null"`
	LowStockThreshold int  `json:"low_stock_threshold" gorm:"default:5"`
	TrackInventory    bool `json:"track_inventory" gorm:"default:true"`

	Status ProductStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	IsPreorderEnabled      bool       `json:"is_preorder_enabled" gorm:"default:false;index"`
	PreorderAutoEnabled    bool       `json:"preorder_auto_enabled" gorm:"default:false"`
	PreorderAvailableDate  *time.Time `json:"preorder_available_date,omitempty"`
	PreorderLimit          *int       `json:"preorder_limit,omitempty"`
	PreorderCount          int        `json:"preorder_count" gorm:"default:0"`
	PreorderMessage        string     `json:"preorder_message,omitempty" gorm:"type:text"`
	PreorderTerms          string     `json:"preorder_terms,omitempty" gorm:"type:text"`
	PreorderEnabledAt      *time.Time `json:"preorder_enabled_at,omitempty"`
	PreorderDisabledReason string     `json:"preorder_disabled_reason,omitempty" gorm:"size:100"`

	Images     pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	Attributes JSONB          `json:"attributes" gorm:"type:jsonb"`

	// Relationships
	Reservations []PreorderReservation `json:"reservations,omitempty" gorm:"foreignKey:ProductID"`
	Movements    []StockMovement       `json:"movements,omitempty" gorm:"foreignKey:ProductID"`
}

// CanPreorder reports whether the product accepts new preorder reservations.
// A configured limit wins over everything else: once preorder_count reaches
// it, no further reservations are accepted.
func (p *Product) CanPreorder() bool {
	if p.PreorderLimit != nil && p.PreorderCount >= *p.PreorderLimit {
		return false
	}
	return p.IsPreorderEnabled
}

// CanReserve reports whether qty additional units fit under the preorder
// limit. Products without a configured limit accept any quantity.
func (p *Product) CanReserve(qty int) bool {
	if p.PreorderLimit == nil {
		return true
	}
	return p.PreorderCount+qty <= *p.PreorderLimit
}

// PreorderRemaining returns how many preorder slots are left, or -1 when the
// product has no limit configured.
func (p *Product) PreorderRemaining() int {
	if p.PreorderLimit == nil {
		return -1
	}
	remaining := *p.PreorderLimit - p.PreorderCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Product) IsInStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity > 0
}

func (p *Product) IsLowStock() bool {
	if !p.TrackInventory {
		return false
	}
	return p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}
