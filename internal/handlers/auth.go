package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
}

func SetupAuthRoutes(router fiber.Router, service *services.AuthService) {
	h := &AuthHandler{service: service}

	router.Post("/login", h.Login)
	router.Post("/refresh", h.RefreshToken)
}

// Login godoc
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Admin credentials"
// @Success 200 {object} Response{data=services.AuthResponse}
// @Failure 401 {object} Response
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	cachecontrol.NoStore(c)

	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &services.ValidationError{Message: "Invalid request body"})
	}

	resp, err := h.service.Login(&req)
	switch {
	case errors.Is(err, services.ErrAdminDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Error: "Admin login is not configured"})
	case err != nil:
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Error: "Invalid email or password"})
	}

	return respond(c, fiber.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Refresh admin tokens
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} Response{data=services.AuthResponse}
// @Failure 401 {object} Response
// @Router /admin/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	cachecontrol.NoStore(c)

	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &services.ValidationError{Message: "Invalid request body"})
	}

	resp, err := h.service.RefreshToken(req.RefreshToken)
	switch {
	case errors.Is(err, services.ErrAdminDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Error: "Admin login is not configured"})
	case err != nil:
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Error: "Invalid or expired refresh token"})
	}

	return respond(c, fiber.StatusOK, resp)
}
