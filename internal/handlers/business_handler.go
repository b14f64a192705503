package handlers

import (
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
)

type BusinessHandler struct {
	businessService *services.BusinessService
	employeeService *services.EmployeeService
}

func NewBusinessHandler(businessService *services.BusinessService, employeeService *services.EmployeeService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		employeeService: employeeService,
	}
}

// Create handles POST /business - registers a business with the caller as admin.
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	business, err := h.businessService.Create(userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(services.BusinessToResponse(business, true))
}

// Get handles GET /business/:businessId.
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	business, err := h.businessService.Get(businessID)
	if err != nil {
		return serviceError(c, err)
	}

	sess, err := session.Current(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(services.BusinessToResponse(business, sess.IsAdminOf(businessID)))
}

// Update handles PATCH /business/:businessId - admin only.
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	var req dto.UpdateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	business, err := h.businessService.Update(businessID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(services.BusinessToResponse(business, true))
}

// Join handles POST /business/:businessId/join - the caller joins as employee
// when their email is on the allow list.
func (h *BusinessHandler) Join(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.businessService.Join(userID, businessID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(services.UserToResponse(user))
}

// Employees handles GET /business/:businessId/employees - admin only.
func (h *BusinessHandler) Employees(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}

	employees, err := h.businessService.Employees(businessID)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]dto.UserResponse, len(employees))
	for i := range employees {
		responses[i] = services.UserToResponse(&employees[i])
	}
	return c.JSON(fiber.Map{"employees": responses})
}

// SetEmployeeRole handles PATCH /business/:businessId/employee/:employeeId.
func (h *BusinessHandler) SetEmployeeRole(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}
	employeeID, ok := paramID(c, "employeeId")
	if !ok {
		return badRequest(c, "Invalid employee id")
	}

	var req dto.UpdateEmployeeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.SetRole(businessID, employeeID, req.Role)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(services.UserToResponse(employee))
}

// RemoveEmployee handles DELETE /business/:businessId/employee/:employeeId.
func (h *BusinessHandler) RemoveEmployee(c *fiber.Ctx) error {
	businessID, ok := paramID(c, "businessId")
	if !ok {
		return badRequest(c, "Invalid business id")
	}
	employeeID, ok := paramID(c, "employeeId")
	if !ok {
		return badRequest(c, "Invalid employee id")
	}

	if err := h.employeeService.Remove(businessID, employeeID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
