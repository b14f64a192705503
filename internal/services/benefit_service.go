package services

import (
	"errors"
	"strings"
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"gorm.io/gorm"
)

type BenefitService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBenefitService(db *gorm.DB) *BenefitService {
	return &BenefitService{db: db, now: time.Now}
}

// Create registers a new perk for the supplier business. Categories are
// find-or-create by name.
func (s *BenefitService) Create(supplierID uint, req *dto.CreateBenefitRequest) (*models.Benefit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("perk name is required")
	}

	benefit := models.Benefit{
		Name:            req.Name,
		Description:     req.Description,
		SupplierID:      supplierID,
		IsPrivate:       req.IsPrivate,
		IsActive:        true,
		UseLimit:        req.UseLimit,
		UseLimitPerUser: req.UseLimitPerUser,
		StartsAt:        req.StartsAt,
		FinishesAt:      req.FinishesAt,
	}

	categories, err := s.findOrCreateCategories(req.Categories)
	if err != nil {
		return nil, err
	}
	benefit.Categories = categories

	for i, url := range req.PhotoURLs {
		benefit.Photos = append(benefit.Photos, models.Photo{URL: url, Position: i})
	}

	if err := s.db.Create(&benefit).Error; err != nil {
		return nil, err
	}

	if len(req.AvailableFor) > 0 {
		if err := s.setAvailableFor(&benefit, req.AvailableFor); err != nil {
			return nil, err
		}
	}

	return &benefit, nil
}

// Update mutates a perk in place. Supplier ownership is checked by the caller.
func (s *BenefitService) Update(benefitID uint, req *dto.UpdateBenefitRequest) (*models.Benefit, error) {
	benefit, err := s.Get(benefitID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPrivate != nil {
		updates["is_private"] = *req.IsPrivate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.UseLimit != nil {
		updates["use_limit"] = *req.UseLimit
	}
	if req.UseLimitPerUser != nil {
		updates["use_limit_per_user"] = *req.UseLimitPerUser
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.FinishesAt != nil {
		updates["finishes_at"] = *req.FinishesAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(benefit).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if req.Categories != nil {
		categories, err := s.findOrCreateCategories(req.Categories)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(benefit).Association("Categories").Replace(categories); err != nil {
			return nil, err
		}
	}

	if req.AvailableFor != nil {
		if err := s.replaceAvailableFor(benefit, req.AvailableFor); err != nil {
			return nil, err
		}
	}

	return s.Get(benefitID)
}

func (s *BenefitService) Get(benefitID uint) (*models.Benefit, error) {
	var benefit models.Benefit
	err := s.db.Preload("Categories").Preload("Photos").First(&benefit, benefitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBenefitNotFound
		}
		return nil, err
	}
	return &benefit, nil
}

// List returns the perks visible to a beneficiary business under the
// eligibility filter table, combined with the uniform temporal predicate.
// A non-nil startsAt swaps that predicate for the start-bound filter.
func (s *BenefitService) List(beneficiaryID uint, acquired, privacy *bool, startsAt *time.Time, q *dto.BenefitListQuery) ([]models.Benefit, int64, error) {
	filter := BuildBenefitFilter(acquired, privacy)

	temporal := CurrentlyRunning(s.now())
	if startsAt != nil {
		temporal = StartingFrom(*startsAt, s.now())
	}

	base := s.db.Model(&models.Benefit{}).
		Scopes(filter.Scope(beneficiaryID), temporal)

	if search := strings.TrimSpace(q.SearchString); search != "" {
		base = base.Where("LOWER(benefits.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if q.Category != "" {
		base = base.Where(
			"benefits.id IN (SELECT benefit_id FROM benefit_categories WHERE category_id IN (SELECT id FROM categories WHERE name = ?))",
			q.Category,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := base.Session(&gorm.Session{}).Order("benefits.id ASC")
	if q.Cursor > 0 {
		page = page.Where("benefits.id > ?", q.Cursor)
	}
	if q.Skip > 0 {
		page = page.Offset(q.Skip)
	}
	take := q.Take
	if take <= 0 || take > 100 {
		take = 20
	}
	page = page.Limit(take)

	var benefits []models.Benefit
	err := page.Preload("Categories").Preload("Photos").Find(&benefits).Error
	return benefits, total, err
}

// ListOffers returns the perks a business supplies, active or not.
func (s *BenefitService) ListOffers(supplierID uint) ([]models.Benefit, error) {
	var benefits []models.Benefit
	err := s.db.Preload("Categories").
		Where("supplier_id = ?", supplierID).
		Order("id ASC").
		Find(&benefits).Error
	return benefits, err
}

// Acquire adds the business to the perk's beneficiaries. Both the acquiring
// and the supplying business must hold a paid membership, and the perk must
// be available to the acquirer (public, or private and listed). The join
// table insert is an upsert, so re-acquiring is a no-op.
func (s *BenefitService) Acquire(businessID, benefitID uint) error {
	var business models.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	var benefit models.Benefit
	if err := s.db.Preload("Supplier").First(&benefit, benefitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBenefitNotFound
		}
		return err
	}

	if !business.PaidMembership {
		return ErrEmployerSubscriptionRequired
	}
	if benefit.Supplier == nil || !benefit.Supplier.PaidMembership {
		return ErrSupplierSubscriptionRequired
	}

	// Availability under the (acquired=any, privacy=any) filter row:
	// public, or listed in available_for for this business.
	var available int64
	err := s.db.Model(&models.Benefit{}).
		Scopes(BuildBenefitFilter(nil, nil).Scope(businessID)).
		Where("benefits.id = ?", benefitID).
		Count(&available).Error
	if err != nil {
		return err
	}
	if available == 0 {
		return ErrBenefitNotAvailable
	}

	return s.db.Model(&benefit).Association("Beneficiaries").Append(&business)
}

// Release removes the business from the perk's beneficiaries. No check that
// it was present; removing a non-beneficiary is a no-op.
func (s *BenefitService) Release(businessID, benefitID uint) error {
	var benefit models.Benefit
	if err := s.db.First(&benefit, benefitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBenefitNotFound
		}
		return err
	}
	return s.db.Model(&benefit).Association("Beneficiaries").Delete(&models.Business{ID: businessID})
}

func (s *BenefitService) findOrCreateCategories(names []string) ([]models.Category, error) {
	var categories []models.Category
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var category models.Category
		if err := s.db.Where("name = ?", name).FirstOrCreate(&category, models.Category{Name: name}).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *BenefitService) setAvailableFor(benefit *models.Benefit, businessIDs []uint) error {
	businesses, err := s.loadBusinesses(businessIDs)
	if err != nil {
		return err
	}
	return s.db.Model(benefit).Association("AvailableFor").Append(businesses)
}

func (s *BenefitService) replaceAvailableFor(benefit *models.Benefit, businessIDs []uint) error {
	businesses, err := s.loadBusinesses(businessIDs)
	if err != nil {
		return err
	}
	return s.db.Model(benefit).Association("AvailableFor").Replace(businesses)
}

func (s *BenefitService) loadBusinesses(ids []uint) ([]models.Business, error) {
	var businesses []models.Business
	if len(ids) == 0 {
		return businesses, nil
	}
	if err := s.db.Where("id IN ?", ids).Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}
