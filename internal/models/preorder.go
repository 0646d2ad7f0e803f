// internal/models/preorder.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type PreorderReservation struct {
	BaseModel
	ProductID     uuid.UUID         `json:"product_id" gorm:"type:uuid;not null;index"`
	CustomerEmail string            `json:"customer_email" gorm:"size:255;not null;index"`
	Quantity      int               `json:"quantity" gorm:"not null"`
	Status        ReservationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Notes         string            `json:"notes,omitempty" gorm:"type:text"`
	ConfirmedAt   *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
