package services

import (
	"errors"
	"log/slog"

	"github.com/nicolascalev/toptierperk-api/internal/models"
	"gorm.io/gorm"
)

// Employee roles. Mutually exclusive; "admin" implies connection as the
// business's administrator, "verifier" only grants claim verification.
const (
	RoleBasic    = "basic"
	RoleVerifier = "verifier"
	RoleAdmin    = "admin"
)

// Notifier dispatches employee notifications. The asynq-backed implementation
// lives in internal/tasks; tests substitute a recorder.
type Notifier interface {
	NotifyRoleChanged(user *models.User, businessName, role string) error
	NotifyEmployeeRemoved(user *models.User, businessName string) error
}

type EmployeeService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewEmployeeService(db *gorm.DB, notifier Notifier) *EmployeeService {
	return &EmployeeService{db: db, notifier: notifier}
}

// SetRole assigns one of the three roles to an employee of the business. The
// role literal is validated before any mutation. The employee's sessions are
// invalidated via authorization_changed and an email notification tells them
// to sign in again.
func (s *EmployeeService) SetRole(businessID, employeeID uint, role string) (*models.User, error) {
	if role != RoleBasic && role != RoleVerifier && role != RoleAdmin {
		return nil, ErrInvalidRole
	}

	employee, business, err := s.loadEmployee(businessID, employeeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"authorization_changed": true,
	}
	switch role {
	case RoleAdmin:
		updates["admin_of_id"] = business.ID
		updates["can_verify"] = false
	case RoleVerifier:
		updates["admin_of_id"] = nil
		updates["can_verify"] = true
	case RoleBasic:
		updates["admin_of_id"] = nil
		updates["can_verify"] = false
	}

	if err := s.db.Model(employee).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(employee, employee.ID).Error; err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRoleChanged(employee, business.Name, role); err != nil {
		slog.Error("failed to dispatch role change notification",
			"user_id", employee.ID, "business_id", business.ID, "error", err)
	}

	return employee, nil
}

// Remove detaches an employee from the business, dropping any role.
func (s *EmployeeService) Remove(businessID, employeeID uint) error {
	employee, business, err := s.loadEmployee(businessID, employeeID)
	if err != nil {
		return err
	}

	err = s.db.Model(employee).Updates(map[string]interface{}{
		"business_id":           nil,
		"admin_of_id":           nil,
		"can_verify":            false,
		"authorization_changed": true,
	}).Error
	if err != nil {
		return err
	}

	if err := s.notifier.NotifyEmployeeRemoved(employee, business.Name); err != nil {
		slog.Error("failed to dispatch employee removal notification",
			"user_id", employee.ID, "business_id", business.ID, "error", err)
	}

	return nil
}

func (s *EmployeeService) loadEmployee(businessID, employeeID uint) (*models.User, *models.Business, error) {
	var business models.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBusinessNotFound
		}
		return nil, nil, err
	}

	var employee models.User
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if employee.BusinessID == nil || *employee.BusinessID != business.ID {
		return nil, nil, ErrNotAnEmployee
	}

	return &employee, &business, nil
}
