// internal/services/preorder_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/stock"
	"github.com/shopsmith/storefront/internal/utils"
)

type PreorderService struct {
	db        *gorm.DB
	publisher events.Publisher
}

type EnablePreorderRequest struct {
	AvailableDate *time.Time `json:"available_date,omitempty"`
	Limit         *int       `json:"limit,omitempty" validate:"omitempty,min=1"`
	Message       string     `json:"message,omitempty" validate:"omitempty,max=1000"`
	Terms         string     `json:"terms,omitempty" validate:"omitempty,max=5000"`
}

type DisablePreorderRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=100"`
}

type ReservePreorderRequest struct {
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func NewPreorderService(db *gorm.DB, publisher events.Publisher) *PreorderService {
	return &PreorderService{
		db:        db,
		publisher: publisher,
	}
}

// EnablePreorder is the administrative (manual) activation. It carries an
// explicit configuration and clears preorder_auto_enabled, so the automatic
// machinery never mistakes it for its own work.
func (s *PreorderService) EnablePreorder(productID uuid.UUID, req *EnablePreorderRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	var evts []events.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if product.IsPreorderEnabled {
			return errors.New("preorder already enabled")
		}

		evts = stock.EnablePreorder(&product, stock.ManualPreorderConfig{
			AvailableDate: req.AvailableDate,
			Limit:         req.Limit,
			Message:       req.Message,
			Terms:         req.Terms,
		})

		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to enable preorder: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(evts...)
	}

	return &product, nil
}

// DisablePreorder is the administrative deactivation. Disabling a preorder
// that is not enabled is a business-rule error, not a no-op.
func (s *PreorderService) DisablePreorder(productID uuid.UUID, req *DisablePreorderRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	var evts []events.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.IsPreorderEnabled {
			return errors.New("preorder not enabled")
		}

		evts = stock.DisableManualPreorder(&product, req.Reason)

		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to disable preorder: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(evts...)
	}

	return &product, nil
}

// Reserve records a preorder reservation and bumps the product's preorder
// count. The product row is locked so the limit cannot be oversubscribed by
// concurrent reservations.
func (s *PreorderService) Reserve(productID uuid.UUID, req *ReservePreorderRequest) (*models.PreorderReservation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var reservation *models.PreorderReservation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("product not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.CanPreorder() {
			return errors.New("product is not available for preorder")
		}

		if !product.CanReserve(req.Quantity) {
			return errors.New("preorder limit reached")
		}

		reservation = &models.PreorderReservation{
			ProductID:     product.ID,
			CustomerEmail: req.CustomerEmail,
			Quantity:      req.Quantity,
			Status:        models.ReservationStatusPending,
			Notes:         req.Notes,
		}
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		product.PreorderCount += req.Quantity
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update preorder count: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id":     productID,
		"reservation_id": reservation.ID,
		"quantity":       reservation.Quantity,
	}).Info("Preorder reserved")

	return reservation, nil
}

// CancelReservation releases the reserved quantity back to the limit.
func (s *PreorderService) CancelReservation(reservationID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var reservation models.PreorderReservation
		if err := tx.First(&reservation, "id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("reservation not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if reservation.Status == models.ReservationStatusCancelled {
			return errors.New("reservation already cancelled")
		}

		var product models.Product
		if err := lockForUpdate(tx).
			First(&product, "id = ?", reservation.ProductID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		now := time.Now()
		reservation.Status = models.ReservationStatusCancelled
		reservation.CancelledAt = &now
		if err := tx.Save(&reservation).Error; err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		product.PreorderCount -= reservation.Quantity
		if product.PreorderCount < 0 {
			product.PreorderCount = 0
		}
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update preorder count: %w", err)
		}

		return nil
	})
}

func (s *PreorderService) GetReservations(productID uuid.UUID, params utils.PaginationParams) ([]models.PreorderReservation, int64, error) {
	query := s.db.Model(&models.PreorderReservation{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	var reservations []models.PreorderReservation
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Find(&reservations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reservations: %w", err)
	}

	return reservations, total, nil
}

// ReevaluateStockouts scans tracked products sitting at zero stock without
// preorder and pushes them through the out-of-stock handling. Safe to run
// repeatedly: already-enabled products are filtered out by the query and
// re-checked under lock.
func (s *PreorderService) ReevaluateStockouts(batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 200
	}

	transitioned := 0
	for {
		var candidates []models.Product
		if err := s.db.
			Where("track_inventory AND stock_quantity = 0 AND NOT is_preorder_enabled").
			Limit(batchSize).
			Find(&candidates).Error; err != nil {
			return transitioned, fmt.Errorf("failed to scan stockout candidates: %w", err)
		}

		if len(candidates) == 0 {
			return transitioned, nil
		}

		var evts []events.Event
		for i := range candidates {
			err := s.db.Transaction(func(tx *gorm.DB) error {
				var product models.Product
				if err := lockForUpdate(tx).
					First(&product, "id = ?", candidates[i].ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil
					}
					return fmt.Errorf("database error: %w", err)
				}

				productEvts := stock.Reevaluate(&product)
				if len(productEvts) == 0 {
					return nil
				}

				if err := tx.Save(&product).Error; err != nil {
					return fmt.Errorf("failed to update product: %w", err)
				}

				evts = append(evts, productEvts...)
				transitioned++
				return nil
			})
			if err != nil {
				return transitioned, err
			}
		}

		if s.publisher != nil && len(evts) > 0 {
			s.publisher.Publish(evts...)
		}

		if len(candidates) < batchSize {
			return transitioned, nil
		}
	}
}
