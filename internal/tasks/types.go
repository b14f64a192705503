package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeRoleChangedEmail     = "email:role_changed"
	TypeEmployeeRemovedEmail = "email:employee_removed"
)

// RoleChangedPayload carries the data for a role-change notification email.
type RoleChangedPayload struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Role         string `json:"role"`
}

func NewRoleChangedTask(payload RoleChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoleChangedEmail, data), nil
}

// EmployeeRemovedPayload carries the data for a removal notification email.
type EmployeeRemovedPayload struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
}

func NewEmployeeRemovedTask(payload EmployeeRemovedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmployeeRemovedEmail, data), nil
}
