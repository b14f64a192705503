package services_test

import (
	"testing"

	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type employeeScene struct {
	db       *gorm.DB
	service  *services.EmployeeService
	notifier *testutil.RecordingNotifier
	business *models.Business
	employee *models.User
}

func newEmployeeScene(t *testing.T) *employeeScene {
	t.Helper()

	db := testutil.SetupTestDB(t)
	notifier := &testutil.RecordingNotifier{}
	business := testutil.CreateTestBusiness(t, db, "employer", true)
	return &employeeScene{
		db:       db,
		service:  services.NewEmployeeService(db, notifier),
		notifier: notifier,
		business: business,
		employee: testutil.CreateTestUser(t, db, business, false),
	}
}

func (s *employeeScene) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, s.db.First(&u, id).Error)
	return &u
}

func TestEmployeeSetRole(t *testing.T) {
	t.Run("promote to admin", func(t *testing.T) {
		s := newEmployeeScene(t)

		updated, err := s.service.SetRole(s.business.ID, s.employee.ID, services.RoleAdmin)
		require.NoError(t, err)

		require.NotNil(t, updated.AdminOfID)
		assert.Equal(t, s.business.ID, *updated.AdminOfID)
		assert.False(t, updated.CanVerify)
		assert.True(t, updated.AuthorizationChanged)

		require.Len(t, s.notifier.RoleChanges, 1)
		assert.Equal(t, s.employee.ID, s.notifier.RoleChanges[0].UserID)
		assert.Equal(t, services.RoleAdmin, s.notifier.RoleChanges[0].Role)
		assert.Equal(t, s.business.Name, s.notifier.RoleChanges[0].BusinessName)
	})

	t.Run("promote to verifier", func(t *testing.T) {
		s := newEmployeeScene(t)

		_, err := s.service.SetRole(s.business.ID, s.employee.ID, services.RoleVerifier)
		require.NoError(t, err)

		got := s.reload(t, s.employee.ID)
		assert.Nil(t, got.AdminOfID)
		assert.True(t, got.CanVerify)
		assert.True(t, got.AuthorizationChanged)
	})

	t.Run("demote admin to basic", func(t *testing.T) {
		s := newEmployeeScene(t)

		_, err := s.service.SetRole(s.business.ID, s.employee.ID, services.RoleAdmin)
		require.NoError(t, err)
		_, err = s.service.SetRole(s.business.ID, s.employee.ID, services.RoleBasic)
		require.NoError(t, err)

		got := s.reload(t, s.employee.ID)
		assert.Nil(t, got.AdminOfID)
		assert.False(t, got.CanVerify)
	})

	t.Run("admin to verifier drops administration", func(t *testing.T) {
		s := newEmployeeScene(t)

		_, err := s.service.SetRole(s.business.ID, s.employee.ID, services.RoleAdmin)
		require.NoError(t, err)
		_, err = s.service.SetRole(s.business.ID, s.employee.ID, services.RoleVerifier)
		require.NoError(t, err)

		got := s.reload(t, s.employee.ID)
		assert.Nil(t, got.AdminOfID)
		assert.True(t, got.CanVerify)
	})

	t.Run("unknown role rejected before any mutation", func(t *testing.T) {
		s := newEmployeeScene(t)

		_, err := s.service.SetRole(s.business.ID, s.employee.ID, "owner")
		assert.ErrorIs(t, err, services.ErrInvalidRole)

		got := s.reload(t, s.employee.ID)
		assert.False(t, got.AuthorizationChanged)
		assert.Empty(t, s.notifier.RoleChanges)
	})

	t.Run("non-employee rejected", func(t *testing.T) {
		s := newEmployeeScene(t)
		outsider := testutil.CreateTestUser(t, s.db, nil, false)

		_, err := s.service.SetRole(s.business.ID, outsider.ID, services.RoleVerifier)
		assert.ErrorIs(t, err, services.ErrNotAnEmployee)
	})

	t.Run("unknown business rejected", func(t *testing.T) {
		s := newEmployeeScene(t)

		_, err := s.service.SetRole(99999, s.employee.ID, services.RoleVerifier)
		assert.ErrorIs(t, err, services.ErrBusinessNotFound)
	})
}

func TestEmployeeRemove(t *testing.T) {
	s := newEmployeeScene(t)
	require.NoError(t, s.db.Model(s.employee).Update("can_verify", true).Error)

	require.NoError(t, s.service.Remove(s.business.ID, s.employee.ID))

	got := s.reload(t, s.employee.ID)
	assert.Nil(t, got.BusinessID)
	assert.Nil(t, got.AdminOfID)
	assert.False(t, got.CanVerify)
	assert.True(t, got.AuthorizationChanged)

	require.Len(t, s.notifier.Removals, 1)
	assert.Equal(t, s.employee.ID, s.notifier.Removals[0].UserID)

	// Already removed: no longer an employee.
	err := s.service.Remove(s.business.ID, s.employee.ID)
	assert.ErrorIs(t, err, services.ErrNotAnEmployee)
}
