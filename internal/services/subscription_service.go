package services

import (
	"fmt"
	"strconv"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// HandleWebhookEvent maps PayPal billing events onto the paid_membership
// flag. Events for unrelated resources are ignored.
func (s *SubscriptionService) HandleWebhookEvent(event *dto.PaypalWebhookEvent) error {
	switch event.EventType {
	case "BILLING.SUBSCRIPTION.ACTIVATED":
		return s.handleActivated(event)
	case "BILLING.SUBSCRIPTION.CANCELLED",
		"BILLING.SUBSCRIPTION.EXPIRED",
		"BILLING.SUBSCRIPTION.SUSPENDED":
		return s.handleDeactivated(event)
	default:
		return nil
	}
}

func (s *SubscriptionService) handleActivated(event *dto.PaypalWebhookEvent) error {
	businessID, err := strconv.ParseUint(event.Resource.CustomID, 10, 64)
	if err != nil {
		return fmt.Errorf("webhook custom_id is not a business id: %w", err)
	}

	result := s.db.Model(&models.Business{}).
		Where("id = ?", uint(businessID)).
		Updates(map[string]interface{}{
			"paid_membership":        true,
			"paypal_subscription_id": event.Resource.ID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

func (s *SubscriptionService) handleDeactivated(event *dto.PaypalWebhookEvent) error {
	return s.db.Model(&models.Business{}).
		Where("paypal_subscription_id = ?", event.Resource.ID).
		Update("paid_membership", false).Error
}
