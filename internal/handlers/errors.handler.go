package handlers

import (
	"errors"

	"maintlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, types.ErrConnectionFailure):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError renders err with the status of its kind. Client errors carry
// the error text; server errors are logged and answered with msg only.
func respondError(c *fiber.Ctx, log logger.Logger, msg string, err error) error {
	status := errorStatus(err)
	if status < fiber.StatusInternalServerError {
		log.Warn(msg, "error", err, "status", status)
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	_ = log.Err(msg, err, "status", status)
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
