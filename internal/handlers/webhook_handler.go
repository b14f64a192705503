package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/nicolascalev/toptierperk-api/internal/config"
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 *config.Config
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{subscriptionService: subscriptionService, cfg: cfg}
}

// HandlePaypal handles POST /webhooks/paypal. Authentication is a shared
// secret header configured on the PayPal webhook; full signature verification
// belongs to the billing integration, which stays outside this service.
func (h *WebhookHandler) HandlePaypal(c *fiber.Ctx) error {
	if h.cfg.PaypalWebhookSecret == "" {
		slog.Error("paypal webhook rejected: no shared secret configured")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	secret := c.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.PaypalWebhookSecret)) != 1 {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var event dto.PaypalWebhookEvent
	if err := c.BodyParser(&event); err != nil {
		return badRequest(c, "Invalid webhook payload")
	}

	if err := h.subscriptionService.HandleWebhookEvent(&event); err != nil {
		slog.Error("paypal webhook processing failed",
			"event_type", event.EventType, "event_id", event.ID, "error", err.Error())
		// 200 so PayPal does not retry events we can never process.
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	return c.JSON(fiber.Map{"status": "processed"})
}
