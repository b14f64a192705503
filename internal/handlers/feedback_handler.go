package handlers

import (
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	feedback, err := h.feedbackService.Create(userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(feedbackToResponse(feedback))
}

// ListForBusiness handles GET /business/:businessId/feedback - feedback about
// the business's own perks, admin only.
func (h *FeedbackHandler) ListForBusiness(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	feedbacks, err := h.feedbackService.ListForSupplier(businessID)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]dto.FeedbackResponse, len(feedbacks))
	for i := range feedbacks {
		responses[i] = feedbackToResponse(&feedbacks[i])
	}
	return c.JSON(fiber.Map{"feedback": responses})
}

func feedbackToResponse(feedback *models.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:         feedback.ID,
		ReporterID: feedback.ReporterID,
		BenefitID:  feedback.BenefitID,
		ClaimID:    feedback.ClaimID,
		Feedback:   feedback.Feedback,
		Type:       feedback.Type,
		Location:   feedback.Location,
		Mood:       feedback.Mood,
		CreatedAt:  feedback.CreatedAt,
	}
}
