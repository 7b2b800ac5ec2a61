package handlers

import (
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/middleware"
	"github.com/biolinkbr/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LinkHandler struct {
	linkService *services.LinkService
}

func NewLinkHandler(linkService *services.LinkService) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

func (h *LinkHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	links, err := h.linkService.List(c.UserContext(), userID)
	if err != nil {
		return faultStatus(c, err, "Failed to load links")
	}
	return c.JSON(links)
}

func (h *LinkHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	link, err := h.linkService.Add(c.UserContext(), userID, &req)
	if err != nil {
		return faultStatus(c, err, "Failed to create link")
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

func (h *LinkHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	linkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid link id",
		})
	}

	var req dto.UpdateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	link, err := h.linkService.Update(c.UserContext(), userID, linkID, &req)
	if err != nil {
		return faultStatus(c, err, "Failed to update link")
	}
	return c.JSON(link)
}

func (h *LinkHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	linkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid link id",
		})
	}

	if err := h.linkService.Remove(c.UserContext(), userID, linkID); err != nil {
		return faultStatus(c, err, "Failed to delete link")
	}
	return c.JSON(fiber.Map{"message": "Link removed"})
}
