package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/apperr"
)

// ErrorHandler renders handler errors as {success:false, message}. Fiber
// errors keep their code; domain errors are mapped by kind.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}
		status := apperr.Status(err)
		if status >= fiber.StatusInternalServerError && logger != nil {
			logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": apperr.Message(err)})
	}
}
