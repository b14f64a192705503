package services_test

import (
	"testing"
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func beneficiaryCount(t *testing.T, db *gorm.DB, benefitID, businessID uint) int64 {
	t.Helper()
	var n int64
	err := db.Table("benefit_beneficiaries").
		Where("benefit_id = ? AND business_id = ?", benefitID, businessID).
		Count(&n).Error
	require.NoError(t, err)
	return n
}

func TestBenefitCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewBenefitService(db)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)

	useLimit := 10
	benefit, err := service.Create(supplier.ID, &dto.CreateBenefitRequest{
		Name:       "Gym Pass",
		IsPrivate:  true,
		UseLimit:   &useLimit,
		Categories: []string{"Fitness", "Health"},
		PhotoURLs:  []string{"https://cdn.example.com/gym.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, supplier.ID, benefit.SupplierID)
	assert.True(t, benefit.IsPrivate)
	assert.True(t, benefit.IsActive)
	assert.Len(t, benefit.Categories, 2)
	assert.Len(t, benefit.Photos, 1)

	t.Run("categories are reused by name", func(t *testing.T) {
		_, err := service.Create(supplier.ID, &dto.CreateBenefitRequest{
			Name:       "Yoga Class",
			Categories: []string{"Fitness"},
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Category{}).Where("name = ?", "Fitness").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := service.Create(supplier.ID, &dto.CreateBenefitRequest{Name: "   "})
		assert.Error(t, err)
	})
}

func TestBenefitAcquire(t *testing.T) {
	t.Run("public perk", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := services.NewBenefitService(db)
		supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
		buyer := testutil.CreateTestBusiness(t, db, "buyer", true)
		benefit := testutil.CreateTestBenefit(t, db, supplier, "Public Perk")

		require.NoError(t, service.Acquire(buyer.ID, benefit.ID))
		assert.EqualValues(t, 1, beneficiaryCount(t, db, benefit.ID, buyer.ID))
	})

	t.Run("acquiring twice stays a single row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := services.NewBenefitService(db)
		supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
		buyer := testutil.CreateTestBusiness(t, db, "buyer", true)
		benefit := testutil.CreateTestBenefit(t, db, supplier, "Public Perk")

		require.NoError(t, service.Acquire(buyer.ID, benefit.ID))
		require.NoError(t, service.Acquire(buyer.ID, benefit.ID))
		assert.EqualValues(t, 1, beneficiaryCount(t, db, benefit.ID, buyer.ID))
	})

	t.Run("private perk needs a listing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := services.NewBenefitService(db)
		supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
		buyer := testutil.CreateTestBusiness(t, db, "buyer", true)
		benefit := testutil.CreateTestBenefit(t, db, supplier, "Private Perk")
		require.NoError(t, db.Model(benefit).Update("is_private", true).Error)

		err := service.Acquire(buyer.ID, benefit.ID)
		assert.ErrorIs(t, err, services.ErrBenefitNotAvailable)

		testutil.MakeAvailableFor(t, db, benefit, buyer)
		assert.NoError(t, service.Acquire(buyer.ID, benefit.ID))
	})

	t.Run("both sides need paid membership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := services.NewBenefitService(db)
		paidSupplier := testutil.CreateTestBusiness(t, db, "supplier", true)
		freeSupplier := testutil.CreateTestBusiness(t, db, "free-supplier", false)
		freeBuyer := testutil.CreateTestBusiness(t, db, "free-buyer", false)
		paidBuyer := testutil.CreateTestBusiness(t, db, "paid-buyer", true)

		benefit := testutil.CreateTestBenefit(t, db, paidSupplier, "Perk")
		err := service.Acquire(freeBuyer.ID, benefit.ID)
		assert.ErrorIs(t, err, services.ErrEmployerSubscriptionRequired)

		unpaidBenefit := testutil.CreateTestBenefit(t, db, freeSupplier, "Unpaid Perk")
		err = service.Acquire(paidBuyer.ID, unpaidBenefit.ID)
		assert.ErrorIs(t, err, services.ErrSupplierSubscriptionRequired)
	})
}

func TestBenefitRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewBenefitService(db)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
	buyer := testutil.CreateTestBusiness(t, db, "buyer", true)
	benefit := testutil.CreateTestBenefit(t, db, supplier, "Perk")
	testutil.AcquireBenefit(t, db, benefit, buyer)

	require.NoError(t, service.Release(buyer.ID, benefit.ID))
	assert.EqualValues(t, 0, beneficiaryCount(t, db, benefit.ID, buyer.ID))

	// Releasing again is a no-op, not an error.
	assert.NoError(t, service.Release(buyer.ID, benefit.ID))
}

func TestBenefitList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewBenefitService(db)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
	viewer := testutil.CreateTestBusiness(t, db, "viewer", true)

	acquiredPublic := testutil.CreateTestBenefit(t, db, supplier, "Acquired Public")
	testutil.AcquireBenefit(t, db, acquiredPublic, viewer)

	acquiredPrivate := testutil.CreateTestBenefit(t, db, supplier, "Acquired Private")
	require.NoError(t, db.Model(acquiredPrivate).Update("is_private", true).Error)
	testutil.AcquireBenefit(t, db, acquiredPrivate, viewer)

	openPublic := testutil.CreateTestBenefit(t, db, supplier, "Open Public")

	listedPrivate := testutil.CreateTestBenefit(t, db, supplier, "Listed Private")
	require.NoError(t, db.Model(listedPrivate).Update("is_private", true).Error)
	testutil.MakeAvailableFor(t, db, listedPrivate, viewer)

	// Private and not listed for the viewer: invisible in every combination.
	hiddenPrivate := testutil.CreateTestBenefit(t, db, supplier, "Hidden Private")
	require.NoError(t, db.Model(hiddenPrivate).Update("is_private", true).Error)

	names := func(benefits []models.Benefit) []string {
		out := make([]string, 0, len(benefits))
		for _, b := range benefits {
			out = append(out, b.Name)
		}
		return out
	}

	list := func(acquired, privacy *bool) []string {
		t.Helper()
		benefits, _, err := service.List(viewer.ID, acquired, privacy, nil, &dto.BenefitListQuery{})
		require.NoError(t, err)
		return names(benefits)
	}

	t.Run("no filters shows public plus listed private", func(t *testing.T) {
		got := list(nil, nil)
		assert.ElementsMatch(t,
			[]string{"Acquired Public", "Open Public", "Listed Private"}, got)
	})

	t.Run("acquired only", func(t *testing.T) {
		got := list(boolPtr(true), nil)
		assert.ElementsMatch(t, []string{"Acquired Public", "Acquired Private"}, got)
	})

	t.Run("acquired and private", func(t *testing.T) {
		got := list(boolPtr(true), boolPtr(true))
		assert.ElementsMatch(t, []string{"Acquired Private"}, got)
	})

	t.Run("not acquired, any privacy", func(t *testing.T) {
		got := list(boolPtr(false), nil)
		assert.ElementsMatch(t, []string{"Open Public", "Listed Private"}, got)
	})

	t.Run("not acquired and private requires listing", func(t *testing.T) {
		got := list(boolPtr(false), boolPtr(true))
		assert.ElementsMatch(t, []string{"Listed Private"}, got)
	})

	t.Run("any acquisition, public", func(t *testing.T) {
		got := list(nil, boolPtr(false))
		assert.ElementsMatch(t, []string{"Acquired Public", "Open Public"}, got)
	})

	t.Run("search narrows by name", func(t *testing.T) {
		benefits, total, err := service.List(viewer.ID, nil, nil, nil, &dto.BenefitListQuery{SearchString: "open"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, benefits, 1)
		assert.Equal(t, "Open Public", benefits[0].Name)
	})

	t.Run("inactive and out-of-window perks are hidden", func(t *testing.T) {
		require.NoError(t, db.Model(openPublic).Update("is_active", false).Error)
		future := time.Now().Add(48 * time.Hour)
		require.NoError(t, db.Model(acquiredPublic).Update("starts_at", future).Error)

		got := list(nil, nil)
		assert.ElementsMatch(t, []string{"Listed Private"}, got)

		require.NoError(t, db.Model(openPublic).Update("is_active", true).Error)
		require.NoError(t, db.Model(acquiredPublic).Update("starts_at", nil).Error)
	})

	t.Run("startsAt filters by the start bound", func(t *testing.T) {
		nextWeek := time.Now().Add(7 * 24 * time.Hour)
		require.NoError(t, db.Model(openPublic).Update("starts_at", nextWeek).Error)

		// Hidden from the default listing, visible when browsing upcoming perks.
		assert.ElementsMatch(t, []string{"Acquired Public", "Listed Private"}, list(nil, nil))

		benefits, total, err := service.List(viewer.ID, nil, nil, &nextWeek, &dto.BenefitListQuery{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, benefits, 1)
		assert.Equal(t, "Open Public", benefits[0].Name)

		// Perks without a start bound never match a start-bound filter.
		past := time.Now().Add(-24 * time.Hour)
		benefits, _, err = service.List(viewer.ID, nil, nil, &past, &dto.BenefitListQuery{})
		require.NoError(t, err)
		require.Len(t, benefits, 1)
		assert.Equal(t, "Open Public", benefits[0].Name)

		require.NoError(t, db.Model(openPublic).Update("starts_at", nil).Error)
	})

	t.Run("cursor pagination", func(t *testing.T) {
		benefits, total, err := service.List(viewer.ID, nil, nil, nil, &dto.BenefitListQuery{Take: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, benefits, 2)

		next, _, err := service.List(viewer.ID, nil, nil, nil, &dto.BenefitListQuery{
			Take:   2,
			Cursor: benefits[1].ID,
		})
		require.NoError(t, err)
		require.Len(t, next, 1)
		assert.Greater(t, next[0].ID, benefits[1].ID)
	})
}

func TestBenefitListOffers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewBenefitService(db)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
	other := testutil.CreateTestBusiness(t, db, "other", true)

	active := testutil.CreateTestBenefit(t, db, supplier, "Active")
	inactive := testutil.CreateTestBenefit(t, db, supplier, "Inactive")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	testutil.CreateTestBenefit(t, db, other, "Someone Else's")

	offers, err := service.ListOffers(supplier.ID)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, active.ID, offers[0].ID)
	assert.Equal(t, inactive.ID, offers[1].ID)
}

func TestBenefitUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := services.NewBenefitService(db)
	supplier := testutil.CreateTestBusiness(t, db, "supplier", true)
	benefit := testutil.CreateTestBenefit(t, db, supplier, "Old Name")

	newName := "New Name"
	isActive := false
	updated, err := service.Update(benefit.ID, &dto.UpdateBenefitRequest{
		Name:       &newName,
		IsActive:   &isActive,
		Categories: []string{"Food"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.False(t, updated.IsActive)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Food", updated.Categories[0].Name)

	_, err = service.Update(99999, &dto.UpdateBenefitRequest{Name: &newName})
	assert.ErrorIs(t, err, services.ErrBenefitNotFound)
}
