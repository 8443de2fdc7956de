package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

type ProductHandler struct {
	service *services.ProductService
}

func SetupProductRoutes(router fiber.Router, service *services.ProductService) {
	h := &ProductHandler{service: service}

	router.Get("/", h.List)
}

// List godoc
// @Summary Products of a seller
// @Description Up to 50 most recent products
// @Tags products
// @Produce json
// @Param seller_id query string true "Seller user ID"
// @Success 200 {object} Response{data=[]services.ProductView}
// @Failure 400 {object} Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.ListBySeller(c.UserContext(), c.Query("seller_id"))
	if err != nil {
		return respondError(c, err)
	}

	cachecontrol.Products.Apply(c)
	return respond(c, fiber.StatusOK, products)
}
