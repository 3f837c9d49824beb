package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
)

// ErrorHandler renders every error as {"error": message}. Server errors are
// logged; their cause reaches the client only in debug mode.
func ErrorHandler(log *slog.Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		var storageErr *services.StorageError
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, context.DeadlineExceeded):
			code = fiber.StatusServiceUnavailable
			message = "Request timed out"
		case errors.As(err, &storageErr):
			message = storageErr.ClientMessage()
		case errors.Is(err, services.ErrStorage):
			message = "Database error"
		}

		if code >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err,
			)
			if debug && fe == nil {
				message += ": " + err.Error()
			}
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
