package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/internal/apperr"
	applog "taskhub/internal/log"
	"taskhub/internal/services"
	"taskhub/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid JSON body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return apperr.New(apperr.KindValidation, "Please provide a valid email address")
	}
	if !validate.Password(req.Password) {
		applog.Security(c, "validation.fail", map[string]any{"field": "password"})
		return apperr.New(apperr.KindValidation, "Password must be at least 6 characters long")
	}
	role, ok := validate.Role(req.Role)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "role"})
		return apperr.New(apperr.KindValidation, `Role must be either "user" or "admin"`)
	}

	result, err := h.Auth.Register(c.UserContext(), email, req.Password, role)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": result.User.ID, "role": result.User.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid JSON body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return apperr.New(apperr.KindValidation, "Please provide a valid email address")
	}
	if req.Password == "" {
		return apperr.New(apperr.KindValidation, "Password is required")
	}

	result, err := h.Auth.Login(c.UserContext(), email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": result.User.ID})
	return c.JSON(fiber.Map{"success": true, "data": result})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.Auth.Profile(c.UserContext(), identity(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
