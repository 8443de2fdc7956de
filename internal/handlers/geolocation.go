package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

type GeolocationHandler struct {
	service *services.GeolocationService
}

func SetupGeolocationRoutes(router fiber.Router, service *services.GeolocationService) {
	h := &GeolocationHandler{service: service}

	router.Get("/", h.Get)
}

// Get godoc
// @Summary Approximate location of the caller
// @Description IP based; always 200, falls back to the centre of India
// @Tags geolocation
// @Produce json
// @Success 200 {object} Response{data=geolocation.Location}
// @Router /geolocation [get]
func (h *GeolocationHandler) Get(c *fiber.Ctx) error {
	ip := geolocation.ClientIP(c.Get, c.IP())
	res := h.service.Locate(c.UserContext(), ip)

	cachecontrol.Geolocation.Apply(c)
	return c.JSON(Response{
		Success: true,
		Data:    res.Location,
		Message: res.Message,
	})
}
