package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
)

const msgUnexpected = "An unexpected error occurred. Please try again."

// Response is the envelope every /v1 endpoint answers with
type Response struct {
	Success bool                  `json:"success"`
	Data    interface{}           `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Errors  []services.FieldError `json:"errors,omitempty"`
	Message string                `json:"message,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

// respondError maps service errors to a status and cache policy.
// Internal causes are logged, never written to the body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr  *services.ValidationError
		nferr *services.NotFoundError
		rlerr *services.RateLimitError
		serr  *services.StoreError
	)

	switch {
	case errors.As(err, &verr):
		cachecontrol.NoStore(c)
		return c.Status(fiber.StatusBadRequest).JSON(Response{Error: verr.Message, Errors: verr.Fields})

	case errors.As(err, &nferr):
		cachecontrol.NotFound.Apply(c)
		return c.Status(fiber.StatusNotFound).JSON(Response{Error: nferr.Error()})

	case errors.As(err, &rlerr):
		cachecontrol.RateLimited(c, rlerr.RetryAfterSeconds())
		return c.Status(fiber.StatusTooManyRequests).JSON(Response{Error: rlerr.Error()})

	case errors.As(err, &serr):
		logger.GetLogger("http").Errorf("%s %s: %v", c.Method(), c.Path(), serr)
		cachecontrol.NoStore(c)
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Error: serr.Message})

	default:
		logger.GetLogger("http").Errorf("%s %s: unexpected error: %v", c.Method(), c.Path(), err)
		cachecontrol.NoStore(c)
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Error: msgUnexpected})
	}
}
