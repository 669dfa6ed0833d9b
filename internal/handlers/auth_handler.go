package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	result, err := h.authService.Register(c.UserContext(), req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(authResponse(result))
}

// HandleGuest handles POST /auth/guest
func (h *AuthHandler) HandleGuest(c *fiber.Ctx) error {
	result, err := h.authService.Guest(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

func authResponse(result *services.AuthResult) models.AuthResponse {
	return models.AuthResponse{
		Token:     result.Token,
		OwnerID:   result.Account.ID.String(),
		Anonymous: result.Account.Anonymous,
	}
}
