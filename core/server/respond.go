package server

import (
	"errors"

	"chefcode/core/ai"
	"chefcode/core/reconcile"
	"chefcode/core/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RespondError maps domain errors onto HTTP responses so every feature
// reports the same shapes: 400 for validation (with the full field list),
// 404 for missing rows, 409 for conflicts, 503 when a backing service is
// unavailable, 500 otherwise.
func RespondError(c *fiber.Ctx, err error) error {
	var verr *reconcile.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
	}

	var cerr *reconcile.ConflictError
	if errors.As(err, &cerr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": cerr.Error(),
		})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	}

	if errors.Is(err, ai.ErrUnavailable) || errors.Is(err, storage.ErrUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var terr *reconcile.TransactionError
	if errors.As(err, &terr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": terr.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
