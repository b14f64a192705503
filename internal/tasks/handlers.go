package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// Handler consumes notification tasks in the worker process. Each task is
// persisted as a Notification row; actual mail transport would plug in where
// the delivery log line is.
type Handler struct {
	db       *gorm.DB
	mailFrom string
}

func NewHandler(db *gorm.DB, mailFrom string) *Handler {
	return &Handler{db: db, mailFrom: mailFrom}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeRoleChangedEmail, h.HandleRoleChanged)
	mux.HandleFunc(TypeEmployeeRemovedEmail, h.HandleEmployeeRemoved)
}

func (h *Handler) HandleRoleChanged(ctx context.Context, t *asynq.Task) error {
	var payload RoleChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject := fmt.Sprintf("Your role at %s changed", payload.BusinessName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour role at %s is now %q. Sign in again for the change to take effect.\n",
		payload.Name, payload.BusinessName, payload.Role,
	)

	return h.record(payload.UserID, payload.Email, "role_changed", subject, body)
}

func (h *Handler) HandleEmployeeRemoved(ctx context.Context, t *asynq.Task) error {
	var payload EmployeeRemovedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject := fmt.Sprintf("You were removed from %s", payload.BusinessName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou are no longer an employee of %s. Sign in again to continue using your account.\n",
		payload.Name, payload.BusinessName,
	)

	return h.record(payload.UserID, payload.Email, "employee_removed", subject, body)
}

func (h *Handler) record(userID uint, email, kind, subject, body string) error {
	now := time.Now()
	notification := models.Notification{
		UserID:  userID,
		Email:   email,
		Kind:    kind,
		Subject: subject,
		Body:    body,
		SentAt:  &now,
	}
	if err := h.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	slog.Info("notification email delivered",
		"kind", kind, "to", email, "from", h.mailFrom, "subject", subject)
	return nil
}
