package services

import (
	"errors"
	"strings"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) Create(reporterID uint, req *dto.CreateFeedbackRequest) (*models.Feedback, error) {
	if strings.TrimSpace(req.Feedback) == "" {
		return nil, errors.New("feedback text is required")
	}
	if req.Mood < 1 || req.Mood > 5 {
		return nil, ErrInvalidMood
	}

	feedback := models.Feedback{
		ReporterID: reporterID,
		BenefitID:  req.BenefitID,
		ClaimID:    req.ClaimID,
		Feedback:   req.Feedback,
		Type:       req.Type,
		Location:   req.Location,
		Mood:       req.Mood,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListForSupplier returns feedback about perks a business supplies.
func (s *FeedbackService) ListForSupplier(supplierID uint) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.db.
		Where("benefit_id IN (SELECT id FROM benefits WHERE supplier_id = ?)", supplierID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}
