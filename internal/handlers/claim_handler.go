package handlers

import (
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// Create handles POST /benefit/:benefitId/claim - runs the authorization
// gates and returns the claim, or 400 E_NOT_ALLOWED naming the first
// violated gate.
func (h *ClaimHandler) Create(c *fiber.Ctx) error {
	benefitID, ok := paramID(c, "benefitId")
	if !ok {
		return badRequest(c, "Invalid perk id")
	}

	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	claim, err := h.claimService.Create(userID, benefitID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(claimToResponse(claim))
}

// Approve handles POST /claim/:claimId/approve - in-person verification by
// the supplier's verifier.
func (h *ClaimHandler) Approve(c *fiber.Ctx) error {
	claimID, ok := paramID(c, "claimId")
	if !ok {
		return badRequest(c, "Invalid claim id")
	}

	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	claim, err := h.claimService.Approve(userID, claimID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(claimToResponse(claim))
}

// ListMine handles GET /claims - the caller's own claims.
func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	claims, total, err := h.claimService.ListForUser(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(claimListResponse(claims, total))
}

// ListForBusiness handles GET /business/:businessId/claims - admin only.
func (h *ClaimHandler) ListForBusiness(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	claims, total, err := h.claimService.ListForBusiness(businessID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(claimListResponse(claims, total))
}

func claimToResponse(claim *models.Claim) dto.ClaimResponse {
	resp := dto.ClaimResponse{
		ID:           claim.ID,
		Code:         claim.Code.String(),
		UserID:       claim.UserID,
		BenefitID:    claim.BenefitID,
		BusinessID:   claim.BusinessID,
		SupplierID:   claim.SupplierID,
		CreatedAt:    claim.CreatedAt,
		ApprovedAt:   claim.ApprovedAt,
		ApprovedByID: claim.ApprovedByID,
	}
	if claim.Benefit != nil {
		resp.BenefitName = claim.Benefit.Name
	}
	return resp
}

func claimListResponse(claims []models.Claim, total int64) dto.ClaimListResponse {
	resp := dto.ClaimListResponse{
		Claims: make([]dto.ClaimResponse, len(claims)),
		Total:  total,
	}
	for i := range claims {
		resp.Claims[i] = claimToResponse(&claims[i])
	}
	return resp
}
