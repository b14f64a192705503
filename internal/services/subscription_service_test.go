package services_test

import (
	"strconv"
	"testing"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionEvent(eventType, subscriptionID, customID string) *dto.PaypalWebhookEvent {
	event := &dto.PaypalWebhookEvent{
		ID:           "WH-1",
		EventType:    eventType,
		ResourceType: "subscription",
	}
	event.Resource.ID = subscriptionID
	event.Resource.CustomID = customID
	return event
}

func TestSubscriptionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewSubscriptionService(db)
	business := testutil.CreateTestBusiness(t, db, "acme", false)
	businessID := strconv.FormatUint(uint64(business.ID), 10)

	err := service.HandleWebhookEvent(subscriptionEvent("BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB1", businessID))
	require.NoError(t, err)

	var got models.Business
	require.NoError(t, db.First(&got, business.ID).Error)
	assert.True(t, got.PaidMembership)
	require.NotNil(t, got.PaypalSubscriptionID)
	assert.Equal(t, "I-SUB1", *got.PaypalSubscriptionID)

	err = service.HandleWebhookEvent(subscriptionEvent("BILLING.SUBSCRIPTION.CANCELLED", "I-SUB1", ""))
	require.NoError(t, err)

	require.NoError(t, db.First(&got, business.ID).Error)
	assert.False(t, got.PaidMembership)
}

func TestSubscriptionUnknownEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewSubscriptionService(db)

	// Unrelated event types are ignored.
	assert.NoError(t, service.HandleWebhookEvent(subscriptionEvent("PAYMENT.SALE.COMPLETED", "X", "")))

	// Activation for a missing business is an error so the caller can log it.
	err := service.HandleWebhookEvent(subscriptionEvent("BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB9", "99999"))
	assert.ErrorIs(t, err, services.ErrBusinessNotFound)

	// A non-numeric custom id never matches a business.
	err = service.HandleWebhookEvent(subscriptionEvent("BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB9", "not-a-number"))
	assert.Error(t, err)
}
