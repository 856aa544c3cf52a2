package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/healthion/healthion-api/internal/dto"
	"github.com/healthion/healthion-api/internal/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	return c.JSON(dto.MeResponse{
		ID:                  user.ID,
		Auth0ID:             user.Auth0ID,
		Email:               user.Email,
		OpenWearablesUserID: user.OpenWearablesUserID,
		Permissions:         middleware.Permissions(c),
		CreatedAt:           user.CreatedAt,
	})
}
