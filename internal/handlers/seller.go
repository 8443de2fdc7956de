package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

type SellerHandler struct {
	service *services.SellerService
}

func NewSellerHandler(service *services.SellerService) *SellerHandler {
	return &SellerHandler{service: service}
}

func SetupSellerRoutes(router fiber.Router, service *services.SellerService) {
	h := NewSellerHandler(service)

	router.Get("/", h.List)
	router.Get("/:id", h.Get)
}

// List godoc
// @Summary Find sellers near a point
// @Description Sellers within radius km, nearest first
// @Tags sellers
// @Accept json
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param radius query number false "Radius in km (1-500, default 100)"
// @Param businessType query string false "wholesaler or manufacturer"
// @Param category query string false "Category tag"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page (max 100)"
// @Success 200 {object} Response{data=services.SellerListResponse}
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /sellers [get]
func (h *SellerHandler) List(c *fiber.Ctx) error {
	params, err := services.ParseQueryParams(func(key string) string { return c.Query(key) })
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.QuerySellers(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}

	if result.TotalCount == 0 {
		cachecontrol.EmptyResults.Apply(c)
	} else {
		cachecontrol.SellersList.Apply(c)
	}
	return respond(c, fiber.StatusOK, result)
}

// Get godoc
// @Summary Get seller by ID
// @Tags sellers
// @Accept json
// @Produce json
// @Param id path string true "Seller user ID"
// @Success 200 {object} Response{data=services.SellerView}
// @Failure 404 {object} Response
// @Router /sellers/{id} [get]
func (h *SellerHandler) Get(c *fiber.Ctx) error {
	seller, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	cachecontrol.SellerDetail.Apply(c)
	return respond(c, fiber.StatusOK, seller)
}
