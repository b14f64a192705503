package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BusinessService struct {
	db *gorm.DB
}

func NewBusinessService(db *gorm.DB) *BusinessService {
	return &BusinessService{db: db}
}

// Create registers a business and makes the creator its admin and first
// employee. The creator's session goes stale; authorization_changed forces a
// session refresh so the new role lands in the token.
func (s *BusinessService) Create(creatorID uint, req *dto.CreateBusinessRequest) (*models.Business, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("business name is required")
	}

	var creator models.User
	if err := s.db.First(&creator, creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if creator.BusinessID != nil {
		return nil, notAllowed("already belongs to a business")
	}

	business := models.Business{
		Name:                  req.Name,
		Email:                 req.Email,
		About:                 req.About,
		AllowedEmployeeEmails: datatypes.JSON([]byte("[]")),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		return tx.Model(&creator).Updates(map[string]interface{}{
			"business_id":           business.ID,
			"admin_of_id":           business.ID,
			"authorization_changed": true,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &business, nil
}

func (s *BusinessService) Get(businessID uint) (*models.Business, error) {
	var business models.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (s *BusinessService) Update(businessID uint, req *dto.UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.Get(businessID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.AllowedEmployeeEmails != nil {
		encoded, err := json.Marshal(req.AllowedEmployeeEmails)
		if err != nil {
			return nil, err
		}
		updates["allowed_employee_emails"] = datatypes.JSON(encoded)
	}

	if len(updates) == 0 {
		return business, nil
	}
	if err := s.db.Model(business).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(businessID)
}

// Join attaches the user to the business when their email is listed in
// allowed_employee_emails. Email matching is case-insensitive.
func (s *BusinessService) Join(userID, businessID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.BusinessID != nil {
		return nil, notAllowed("already belongs to a business")
	}

	business, err := s.Get(businessID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, email := range business.AllowedEmails() {
		if strings.EqualFold(email, user.Email) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrNotAllowedEmail
	}

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"business_id":           business.ID,
		"authorization_changed": true,
	}).Error
	if err != nil {
		return nil, err
	}

	user.BusinessID = &business.ID
	user.AuthorizationChanged = true
	return &user, nil
}

// Employees lists the business's current employees.
func (s *BusinessService) Employees(businessID uint) ([]models.User, error) {
	var employees []models.User
	err := s.db.Where("business_id = ?", businessID).Order("name ASC").Find(&employees).Error
	return employees, err
}

// BusinessToResponse maps a business row to its API shape. Allowed emails are
// only included when includePrivate is set (admin views).
func BusinessToResponse(business *models.Business, includePrivate bool) dto.BusinessResponse {
	resp := dto.BusinessResponse{
		ID:             business.ID,
		Name:           business.Name,
		Email:          business.Email,
		About:          business.About,
		LogoURL:        business.LogoURL,
		PaidMembership: business.PaidMembership,
		ClaimAmount:    business.ClaimAmount,
	}
	if includePrivate {
		resp.AllowedEmployeeEmails = business.AllowedEmails()
	}
	return resp
}
