package handlers

import (
	"errors"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PublicHandler struct {
	publicService *services.PublicService
}

func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// Show serves the read-only page view at /api/u/:username. A timeout is
// reported distinctly from not-found so the page can offer a retry.
func (h *PublicHandler) Show(c *fiber.Ctx) error {
	view, err := h.publicService.Resolve(c.UserContext(), c.Params("username"))
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Perfil não encontrado",
			})
		}
		if errors.Is(err, faults.ErrTimedOut) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{
				Error: true, Message: "Tempo esgotado, tente novamente",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(view)
}
