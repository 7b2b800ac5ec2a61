package handlers

import (
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/middleware"
	"github.com/biolinkbr/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Change applies a simulated checkout: the plan column moves, nothing
// is billed.
func (h *PlanHandler) Change(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ChangePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.planService.Change(c.UserContext(), userID, req.Plan)
	if err != nil {
		return faultStatus(c, err, "Failed to change plan")
	}
	return c.JSON(user)
}
