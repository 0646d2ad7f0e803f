// internal/services/notification_service.go
package services

import (
	"encoding/json"
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/events"
	"github.com/shopsmith/storefront/internal/models"
)

// NotificationService is the sink for stock and preorder events: each event
// becomes a persisted admin notification, a structured log line, and, for
// high-priority events with SMTP configured, an email to the admin address.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) Publish(evts ...events.Event) {
	for _, evt := range evts {
		title, message, priority := describeEvent(evt)

		productID := evt.Product()
		notification := &models.AdminNotification{
			Type:      evt.Name(),
			Title:     title,
			Message:   message,
			Priority:  priority,
			ProductID: &productID,
			Payload:   eventPayload(evt),
		}

		if err := s.db.Create(notification).Error; err != nil {
			logrus.WithError(err).WithField("event", evt.Name()).
				Error("Failed to persist notification")
		}

		logrus.WithFields(logrus.Fields{
			"event":      evt.Name(),
			"product_id": productID,
			"priority":   priority,
		}).Info(message)

		if priority == models.NotificationPriorityHigh {
			// Fire-and-forget; email failures never affect the write path.
			go s.emailAdmin(title, message)
		}
	}
}

func (s *NotificationService) MarkRead(id uuid.UUID) error {
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", gorm.Expr("NOW()"))
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found or already read")
	}
	return nil
}

func (s *NotificationService) ListUnread(limit int) ([]models.AdminNotification, error) {
	var notifications []models.AdminNotification
	if err := s.db.Where("read_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// describeEvent maps an event to its human-readable notification fields.
func describeEvent(evt events.Event) (title, message string, priority models.NotificationPriority) {
	switch e := evt.(type) {
	case events.StockUpdated:
		title = "Stock updated"
		message = fmt.Sprintf("Stock changed from %d to %d (%s)", e.OldStock, e.NewStock, e.Operation)
		priority = models.NotificationPriorityLow
	case events.OutOfStock:
		title = "Product out of stock"
		message = fmt.Sprintf("Stock depleted (was %d)", e.PreviousStock)
		priority = models.NotificationPriorityHigh
	case events.BackInStock:
		title = "Product back in stock"
		message = fmt.Sprintf("Stock replenished to %d", e.NewStock)
		priority = models.NotificationPriorityMedium
	case events.StatusChanged:
		title = "Product status changed"
		message = fmt.Sprintf("Status changed from %s to %s", e.OldStatus, e.NewStatus)
		priority = models.NotificationPriorityMedium
	case events.PreorderEnabled:
		if e.IsAutomatic {
			title = "Preorder enabled automatically"
			message = "Preorder activated by the system after stock depletion"
		} else {
			title = "Preorder enabled"
			message = "Preorder activated by an administrator"
		}
		priority = models.NotificationPriorityMedium
	case events.PreorderDisabled:
		title = "Preorder disabled"
		if e.Reason != "" {
			message = fmt.Sprintf("Preorder deactivated (%s)", e.Reason)
		} else {
			message = "Preorder deactivated"
		}
		priority = models.NotificationPriorityMedium
	default:
		title = evt.Name()
		message = evt.Name()
		priority = models.NotificationPriorityLow
	}
	return title, message, priority
}

func eventPayload(evt events.Event) models.JSONB {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil
	}
	var payload models.JSONB
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return payload
}

func (s *NotificationService) emailAdmin(subject, body string) {
	if s.config.Email.SMTPHost == "" || s.config.Email.AdminEmail == "" {
		return
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: [%s] %s\r\n\r\n%s",
		s.config.Email.AdminEmail, s.config.Email.FromName, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{s.config.Email.AdminEmail}, msg); err != nil {
		logrus.WithError(err).Error("Failed to send admin email")
	}
}
