package tasks

import (
	"fmt"

	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/hibiken/asynq"
)

// Notifier enqueues notification emails on the task queue. It satisfies
// services.Notifier.
type Notifier struct {
	client *asynq.Client
}

func NewNotifier(client *asynq.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) NotifyRoleChanged(user *models.User, businessName, role string) error {
	task, err := NewRoleChangedTask(RoleChangedPayload{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		BusinessName: businessName,
		Role:         role,
	})
	if err != nil {
		return err
	}
	if _, err := n.client.Enqueue(task); err != nil {
		return fmt.Errorf("enqueue role change email: %w", err)
	}
	return nil
}

func (n *Notifier) NotifyEmployeeRemoved(user *models.User, businessName string) error {
	task, err := NewEmployeeRemovedTask(EmployeeRemovedPayload{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		BusinessName: businessName,
	})
	if err != nil {
		return err
	}
	if _, err := n.client.Enqueue(task); err != nil {
		return fmt.Errorf("enqueue employee removed email: %w", err)
	}
	return nil
}
