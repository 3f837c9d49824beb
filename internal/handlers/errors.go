package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
)

var errInvalidProductID = fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")

// errorResponse maps service errors onto HTTP errors. Anything it does not
// recognise is passed through for the app error handler to render as 500.
func errorResponse(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
