package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

type EnquiryHandler struct {
	service *services.EnquiryService
}

// SetupEnquiryRoutes registers submit behind guard and the admin listing behind admin
func SetupEnquiryRoutes(router fiber.Router, service *services.EnquiryService, guard, admin fiber.Handler) {
	h := &EnquiryHandler{service: service}

	router.Post("/", guard, h.Submit)
	router.Get("/", admin, h.List)
}

// EnquiryCreatedResponse data of a stored enquiry
type EnquiryCreatedResponse struct {
	EnquiryID string `json:"enquiryId"`
}

// Submit godoc
// @Summary Submit an enquiry
// @Tags enquiry
// @Accept json
// @Produce json
// @Param request body services.EnquiryRequest true "Enquiry"
// @Success 201 {object} Response{data=EnquiryCreatedResponse}
// @Failure 400 {object} Response
// @Failure 429 {object} Response
// @Failure 500 {object} Response
// @Router /enquiry [post]
func (h *EnquiryHandler) Submit(c *fiber.Ctx) error {
	var req services.EnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &services.ValidationError{Message: "Invalid request body"})
	}

	id, err := h.service.Submit(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	cachecontrol.NoStore(c)
	return respond(c, fiber.StatusCreated, EnquiryCreatedResponse{EnquiryID: id})
}

// List godoc
// @Summary List enquiries (admin)
// @Tags enquiry
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param enquiryType query string false "seller, general or contact"
// @Param sellerId query string false "Seller ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} Response{data=services.EnquiryListResponse}
// @Failure 401 {object} Response
// @Router /enquiry [get]
func (h *EnquiryHandler) List(c *fiber.Ctx) error {
	resp, err := h.service.List(c.UserContext(), services.EnquiryListParams{
		Status:      c.Query("status"),
		EnquiryType: c.Query("enquiryType"),
		SellerID:    c.Query("sellerId"),
		Page:        c.QueryInt("page", services.DefaultPage),
		Limit:       c.QueryInt("limit", services.DefaultLimit),
	})
	if err != nil {
		return respondError(c, err)
	}

	cachecontrol.NoStore(c)
	return respond(c, fiber.StatusOK, resp)
}
