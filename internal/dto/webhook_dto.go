package dto

// PaypalWebhookEvent is the subset of the PayPal webhook payload the
// subscription service consumes.
type PaypalWebhookEvent struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	ResourceType string `json:"resource_type"`
	Resource     struct {
		// Subscription id for BILLING.SUBSCRIPTION.* events.
		ID       string `json:"id"`
		Status   string `json:"status"`
		CustomID string `json:"custom_id"` // business id set at subscription creation
	} `json:"resource"`
}
