package handlers

import (
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
)

type BenefitHandler struct {
	benefitService *services.BenefitService
}

func NewBenefitHandler(benefitService *services.BenefitService) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// Create handles POST /benefit - the caller must administer a business, which
// becomes the perk's supplier.
func (h *BenefitHandler) Create(c *fiber.Ctx) error {
	sess, err := session.Current(c)
	if err != nil {
		return unauthorized(c)
	}
	if sess.AdminOfID == nil {
		return forbidden(c, "Only a business admin can create perks")
	}

	var req dto.CreateBenefitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	benefit, err := h.benefitService.Create(*sess.AdminOfID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(benefitToResponse(benefit))
}

// Get handles GET /benefit/:benefitId.
func (h *BenefitHandler) Get(c *fiber.Ctx) error {
	benefitID, ok := paramID(c, "benefitId")
	if !ok {
		return badRequest(c, "Invalid perk id")
	}

	benefit, err := h.benefitService.Get(benefitID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(benefitToResponse(benefit))
}

// Update handles PATCH /benefit/:benefitId - supplier admin only.
func (h *BenefitHandler) Update(c *fiber.Ctx) error {
	benefitID, ok := paramID(c, "benefitId")
	if !ok {
		return badRequest(c, "Invalid perk id")
	}

	sess, err := session.Current(c)
	if err != nil {
		return unauthorized(c)
	}

	benefit, err := h.benefitService.Get(benefitID)
	if err != nil {
		return serviceError(c, err)
	}
	if !sess.IsAdminOf(benefit.SupplierID) {
		return forbidden(c, "Only the supplier admin can update this perk")
	}

	var req dto.UpdateBenefitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.benefitService.Update(benefitID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(benefitToResponse(updated))
}

// List handles GET /business/:businessId/benefits - perks from the viewpoint
// of the beneficiary business. privacy and acquired accept "true"|"false",
// absent means either; startsAt narrows to perks starting at or after it.
func (h *BenefitHandler) List(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	sess, err := session.Current(c)
	if err != nil {
		return unauthorized(c)
	}
	if sess.BusinessID == nil || *sess.BusinessID != businessID {
		return forbidden(c, "Not an employee of this business")
	}

	var q dto.BenefitListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	acquired, ok := parseTriState(q.Acquired)
	if !ok {
		return badRequest(c, "acquired must be true or false")
	}
	privacy, ok := parseTriState(q.Privacy)
	if !ok {
		return badRequest(c, "privacy must be true or false")
	}
	startsAt, ok := parseTimeParam(q.StartsAt)
	if !ok {
		return badRequest(c, "startsAt must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}

	benefits, total, err := h.benefitService.List(businessID, acquired, privacy, startsAt, &q)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(benefitListResponse(benefits, total))
}

// ListOffers handles GET /business/:businessId/benefits/offers - the perks a
// business supplies.
func (h *BenefitHandler) ListOffers(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	sess, err := session.Current(c)
	if err != nil {
		return unauthorized(c)
	}
	if sess.BusinessID == nil || *sess.BusinessID != businessID {
		return forbidden(c, "Not an employee of this business")
	}

	benefits, err := h.benefitService.ListOffers(businessID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(benefitListResponse(benefits, int64(len(benefits))))
}

// Acquire handles PUT /business/:businessId/benefits/:benefitId - 204 on
// success, idempotent.
func (h *BenefitHandler) Acquire(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}
	benefitID, ok := paramID(c, "benefitId")
	if !ok {
		return badRequest(c, "Invalid perk id")
	}

	if err := h.benefitService.Acquire(businessID, benefitID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Release handles DELETE /business/:businessId/benefits/:benefitId.
func (h *BenefitHandler) Release(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}
	benefitID, ok := paramID(c, "benefitId")
	if !ok {
		return badRequest(c, "Invalid perk id")
	}

	if err := h.benefitService.Release(businessID, benefitID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseTriState maps "true"/"false"/"" to an optional bool. Any other value
// reports failure.
func parseTriState(s string) (*bool, bool) {
	switch s {
	case "":
		return nil, true
	case "true":
		v := true
		return &v, true
	case "false":
		v := false
		return &v, true
	default:
		return nil, false
	}
}

// parseTimeParam reads an optional time query param, accepting an RFC 3339
// timestamp or a bare date.
func parseTimeParam(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func benefitToResponse(benefit *models.Benefit) dto.BenefitResponse {
	resp := dto.BenefitResponse{
		ID:              benefit.ID,
		Name:            benefit.Name,
		Description:     benefit.Description,
		SupplierID:      benefit.SupplierID,
		IsPrivate:       benefit.IsPrivate,
		IsActive:        benefit.IsActive,
		UseLimit:        benefit.UseLimit,
		UseLimitPerUser: benefit.UseLimitPerUser,
		StartsAt:        benefit.StartsAt,
		FinishesAt:      benefit.FinishesAt,
		ClaimAmount:     benefit.ClaimAmount,
		CreatedAt:       benefit.CreatedAt,
	}
	for _, category := range benefit.Categories {
		resp.Categories = append(resp.Categories, category.Name)
	}
	for _, photo := range benefit.Photos {
		resp.PhotoURLs = append(resp.PhotoURLs, photo.URL)
	}
	return resp
}

func benefitListResponse(benefits []models.Benefit, total int64) dto.BenefitListResponse {
	resp := dto.BenefitListResponse{
		Benefits: make([]dto.BenefitResponse, len(benefits)),
		Total:    total,
	}
	for i := range benefits {
		resp.Benefits[i] = benefitToResponse(&benefits[i])
	}
	if len(benefits) > 0 {
		resp.NextCursor = benefits[len(benefits)-1].ID
	}
	return resp
}
