package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
)

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgUnexpected

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.GetLogger("http").Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}

	cachecontrol.NoStore(c)
	return c.Status(code).JSON(Response{Error: message})
}
