package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// claimScene is a fully claimable setup: paid supplier, paid employer, the
// employer acquired the perk and the user works for the employer.
type claimScene struct {
	db       *gorm.DB
	service  *services.ClaimService
	supplier *models.Business
	employer *models.Business
	user     *models.User
	benefit  *models.Benefit
}

func newClaimScene(t *testing.T) *claimScene {
	t.Helper()

	db := testutil.SetupTestDB(t)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
	employer := testutil.CreateTestBusiness(t, db, "employer", true)
	user := testutil.CreateTestUser(t, db, employer, false)
	benefit := testutil.CreateTestBenefit(t, db, supplier, "Free Coffee")
	testutil.AcquireBenefit(t, db, benefit, employer)

	return &claimScene{
		db:       db,
		service:  services.NewClaimService(db),
		supplier: supplier,
		employer: employer,
		user:     user,
		benefit:  benefit,
	}
}

func TestClaimCreate(t *testing.T) {
	s := newClaimScene(t)

	claim, err := s.service.Create(s.user.ID, s.benefit.ID)
	require.NoError(t, err)

	assert.Equal(t, s.user.ID, claim.UserID)
	assert.Equal(t, s.benefit.ID, claim.BenefitID)
	assert.Equal(t, s.employer.ID, claim.BusinessID)
	assert.Equal(t, s.supplier.ID, claim.SupplierID)
	assert.NotEqual(t, uuid.Nil, claim.Code)
	assert.Nil(t, claim.ApprovedAt)
}

func TestClaimCreateIncrementsCounters(t *testing.T) {
	s := newClaimScene(t)
	other := testutil.CreateTestUser(t, s.db, s.employer, false)

	_, err := s.service.Create(s.user.ID, s.benefit.ID)
	require.NoError(t, err)
	_, err = s.service.Create(other.ID, s.benefit.ID)
	require.NoError(t, err)

	var benefit models.Benefit
	require.NoError(t, s.db.First(&benefit, s.benefit.ID).Error)
	assert.Equal(t, 2, benefit.ClaimAmount)

	var employer models.Business
	require.NoError(t, s.db.First(&employer, s.employer.ID).Error)
	assert.Equal(t, 2, employer.ClaimAmount)
}

func TestClaimCreateGateOrder(t *testing.T) {
	t.Run("user without a business", func(t *testing.T) {
		s := newClaimScene(t)
		loner := testutil.CreateTestUser(t, s.db, nil, false)

		_, err := s.service.Create(loner.ID, s.benefit.ID)
		assert.ErrorIs(t, err, services.ErrMustBelongToBusiness)
	})

	t.Run("inactive perk reported before subscription gates", func(t *testing.T) {
		s := newClaimScene(t)
		// Both gates violated; the earlier one must win.
		require.NoError(t, s.db.Model(s.benefit).Update("is_active", false).Error)
		require.NoError(t, s.db.Model(s.employer).Update("paid_membership", false).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		assert.ErrorIs(t, err, services.ErrBenefitNotActive)
	})

	t.Run("employer without paid membership", func(t *testing.T) {
		s := newClaimScene(t)
		require.NoError(t, s.db.Model(s.employer).Update("paid_membership", false).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		assert.ErrorIs(t, err, services.ErrEmployerSubscriptionRequired)
	})

	t.Run("supplier without paid membership", func(t *testing.T) {
		s := newClaimScene(t)
		require.NoError(t, s.db.Model(s.supplier).Update("paid_membership", false).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		assert.ErrorIs(t, err, services.ErrSupplierSubscriptionRequired)
	})

	t.Run("perk not acquired by employer", func(t *testing.T) {
		s := newClaimScene(t)
		other := testutil.CreateTestBenefit(t, s.db, s.supplier, "Unacquired")

		_, err := s.service.Create(s.user.ID, other.ID)
		assert.ErrorIs(t, err, services.ErrBenefitNotAcquired)
	})

	t.Run("missing perk", func(t *testing.T) {
		s := newClaimScene(t)

		_, err := s.service.Create(s.user.ID, 99999)
		assert.ErrorIs(t, err, services.ErrBenefitNotFound)
	})
}

func TestClaimCreateTemporalWindow(t *testing.T) {
	t.Run("perk not yet started", func(t *testing.T) {
		s := newClaimScene(t)
		tomorrow := time.Now().Add(24 * time.Hour)
		require.NoError(t, s.db.Model(s.benefit).Update("starts_at", tomorrow).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		var notAllowed *services.NotAllowedError
		require.True(t, errors.As(err, &notAllowed))
		assert.Contains(t, notAllowed.Message, "perk starts")
		assert.Contains(t, notAllowed.Message, tomorrow.Format("January 2, 2006"))
	})

	t.Run("perk already finished", func(t *testing.T) {
		s := newClaimScene(t)
		yesterday := time.Now().Add(-24 * time.Hour)
		require.NoError(t, s.db.Model(s.benefit).Update("finishes_at", yesterday).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		var notAllowed *services.NotAllowedError
		require.True(t, errors.As(err, &notAllowed))
		assert.Contains(t, notAllowed.Message, "perk finished")
	})

	t.Run("open-ended perk claims fine", func(t *testing.T) {
		s := newClaimScene(t)
		yesterday := time.Now().Add(-24 * time.Hour)
		require.NoError(t, s.db.Model(s.benefit).Update("starts_at", yesterday).Error)

		_, err := s.service.Create(s.user.ID, s.benefit.ID)
		assert.NoError(t, err)
	})
}

func TestClaimCreateUseLimit(t *testing.T) {
	s := newClaimScene(t)
	require.NoError(t, s.db.Model(s.benefit).Update("use_limit", 2).Error)

	userTwo := testutil.CreateTestUser(t, s.db, s.employer, false)
	userThree := testutil.CreateTestUser(t, s.db, s.employer, false)

	_, err := s.service.Create(s.user.ID, s.benefit.ID)
	require.NoError(t, err)
	_, err = s.service.Create(userTwo.ID, s.benefit.ID)
	require.NoError(t, err)

	_, err = s.service.Create(userThree.ID, s.benefit.ID)
	assert.ErrorIs(t, err, services.ErrUseLimitReached)

	var total int64
	require.NoError(t, s.db.Model(&models.Claim{}).Where("benefit_id = ?", s.benefit.ID).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestClaimCreateUseLimitPerUser(t *testing.T) {
	s := newClaimScene(t)
	require.NoError(t, s.db.Model(s.benefit).Update("use_limit_per_user", 1).Error)

	_, err := s.service.Create(s.user.ID, s.benefit.ID)
	require.NoError(t, err)

	_, err = s.service.Create(s.user.ID, s.benefit.ID)
	assert.ErrorIs(t, err, services.ErrUserLimitReached)

	// The per-user limit is per user, not global.
	other := testutil.CreateTestUser(t, s.db, s.employer, false)
	_, err = s.service.Create(other.ID, s.benefit.ID)
	assert.NoError(t, err)
}

func TestClaimApprove(t *testing.T) {
	t.Run("verifier of the supplier approves", func(t *testing.T) {
		s := newClaimScene(t)
		claim, err := s.service.Create(s.user.ID, s.benefit.ID)
		require.NoError(t, err)

		verifier := testutil.CreateTestUser(t, s.db, s.supplier, false)
		require.NoError(t, s.db.Model(verifier).Update("can_verify", true).Error)

		approved, err := s.service.Approve(verifier.ID, claim.ID)
		require.NoError(t, err)
		assert.NotNil(t, approved.ApprovedAt)
		require.NotNil(t, approved.ApprovedByID)
		assert.Equal(t, verifier.ID, *approved.ApprovedByID)
	})

	t.Run("supplier admin approves without can_verify", func(t *testing.T) {
		s := newClaimScene(t)
		claim, err := s.service.Create(s.user.ID, s.benefit.ID)
		require.NoError(t, err)

		admin := testutil.CreateTestUser(t, s.db, s.supplier, true)
		_, err = s.service.Approve(admin.ID, claim.ID)
		assert.NoError(t, err)
	})

	t.Run("employer staff cannot approve", func(t *testing.T) {
		s := newClaimScene(t)
		claim, err := s.service.Create(s.user.ID, s.benefit.ID)
		require.NoError(t, err)

		outsider := testutil.CreateTestUser(t, s.db, s.employer, false)
		require.NoError(t, s.db.Model(outsider).Update("can_verify", true).Error)

		_, err = s.service.Approve(outsider.ID, claim.ID)
		var notAllowed *services.NotAllowedError
		assert.True(t, errors.As(err, &notAllowed))
	})

	t.Run("basic supplier staff cannot approve", func(t *testing.T) {
		s := newClaimScene(t)
		claim, err := s.service.Create(s.user.ID, s.benefit.ID)
		require.NoError(t, err)

		basic := testutil.CreateTestUser(t, s.db, s.supplier, false)
		_, err = s.service.Approve(basic.ID, claim.ID)
		var notAllowed *services.NotAllowedError
		assert.True(t, errors.As(err, &notAllowed))
	})

	t.Run("second approval rejected", func(t *testing.T) {
		s := newClaimScene(t)
		claim, err := s.service.Create(s.user.ID, s.benefit.ID)
		require.NoError(t, err)

		verifier := testutil.CreateTestUser(t, s.db, s.supplier, false)
		require.NoError(t, s.db.Model(verifier).Update("can_verify", true).Error)

		_, err = s.service.Approve(verifier.ID, claim.ID)
		require.NoError(t, err)
		_, err = s.service.Approve(verifier.ID, claim.ID)
		assert.ErrorIs(t, err, services.ErrClaimAlreadyApproved)
	})
}

func TestClaimLists(t *testing.T) {
	s := newClaimScene(t)
	other := testutil.CreateTestUser(t, s.db, s.employer, false)

	_, err := s.service.Create(s.user.ID, s.benefit.ID)
	require.NoError(t, err)
	_, err = s.service.Create(other.ID, s.benefit.ID)
	require.NoError(t, err)

	mine, total, err := s.service.ListForUser(s.user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, s.user.ID, mine[0].UserID)

	all, total, err := s.service.ListForBusiness(s.employer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
