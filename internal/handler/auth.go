package handler

import (
	"errors"

	"livechat-backend/internal/model"
	"livechat-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// POST /api/admin/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.AdminCredentials
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email and password are required"})
	}

	if _, err := h.authSvc.Register(c.Context(), req.Email, req.Password); err != nil {
		return authError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Admin registered successfully"})
}

// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.AdminCredentials
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email and password are required"})
	}

	token, admin, err := h.authSvc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"admin":   fiber.Map{"email": admin.Email},
		"token":   token,
	})
}

// Me returns the authenticated admin's identity from the JWT claims.
// GET /api/admin/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":    c.Locals("admin_id"),
		"email": c.Locals("email"),
	})
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrAdminExists):
		return c.Status(400).JSON(fiber.Map{"error": "Admin already exists"})
	case errors.Is(err, service.ErrWeakPassword):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}
}
