package handlers

import (
	"errors"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/middleware"
	"github.com/biolinkbr/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	profile, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		return faultStatus(c, err, "Failed to load profile")
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.Update(c.UserContext(), userID, &req)
	if err != nil {
		return faultStatus(c, err, "Failed to update profile")
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) ChangeUsername(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ChangeUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.profileService.ChangeUsername(c.UserContext(), userID, req.Username)
	if err != nil {
		return faultStatus(c, err, "Failed to change username")
	}
	return c.JSON(user)
}

// faultStatus maps the fault taxonomy to HTTP statuses. Unknown errors
// stay opaque to the client.
func faultStatus(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, faults.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, faults.ErrPrecondition):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, faults.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Not found",
		})
	case errors.Is(err, faults.ErrTimedOut):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{
			Error: true, Message: "Request timed out, please retry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
