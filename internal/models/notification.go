// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminNotification is the persisted form of a stock or preorder event,
// surfaced in the admin dashboard and optionally mirrored over email.
type AdminNotification struct {
	BaseModel
	Type      string               `json:"type" gorm:"size:50;not null;index"`
	Title     string               `json:"title" gorm:"size:255;not null"`
	Message   string               `json:"message" gorm:"type:text"`
	Priority  NotificationPriority `json:"priority" gorm:"type:varchar(10);default:'medium';index"`
	ProductID *uuid.UUID           `json:"product_id,omitempty" gorm:"type:uuid;index"`
	Payload   JSONB                `json:"payload" gorm:"type:jsonb"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
}

// StockMovement is the audit row written alongside every stock mutation.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	OldQuantity int            `json:"old_quantity" gorm:"not null"`
	NewQuantity int            `json:"new_quantity" gorm:"not null"`
	Operation   StockOperation `json:"operation" gorm:"type:varchar(20);not null"`
	Reason      string         `json:"reason,omitempty" gorm:"size:255"`
	ActorID     *uuid.UUID     `json:"actor_id,omitempty" gorm:"type:uuid"`
}
