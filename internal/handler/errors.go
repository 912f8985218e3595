package handler

import (
	"errors"

	"go-order-api/internal/errx"
	logx "go-order-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError writes {"error": ...} with the status of err's kind.
// Internal causes are logged and replaced by a generic message.
func respondError(c *fiber.Ctx, err error) error {
	appErr := errx.From(err)
	if appErr.Kind == errx.KindInternal {
		logx.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.Status(appErr.Status()).JSON(fiber.Map{"error": appErr.Public()})
}

// ErrorHandler is the fiber app-level handler for errors no handler turned into a response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return respondError(c, err)
}

// Helper untuk parse ID dari path
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
