package inventory

import (
	"strconv"

	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"
	"chefcode/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleAdd)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList returns inventory items.
// @Summary List inventory
// @Description List inventory items ordered by name.
// @Tags inventory
// @Produce json
// @Param limit query int false "Page size (default 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]any "Items and total"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	items, total, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Inventory list failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// HandleAdd merges one inventory record in.
// @Summary Add inventory item
// @Description Insert a new item or accumulate quantity into the item matching the natural key.
// @Tags inventory
// @Accept json
// @Produce json
// @Param record body models.InventoryRecord true "Inventory record"
// @Success 200 {object} map[string]any "Merged item and outcome"
// @Success 201 {object} map[string]any "Inserted item and outcome"
// @Failure 400 {object} map[string]any "Validation failure"
// @Router /inventory [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	var rec models.InventoryRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item, result, err := h.service.AddItem(c.Context(), &rec)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Inventory add failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	status := fiber.StatusOK
	if result.Outcome == reconcile.OutcomeInserted {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"item":    item,
		"outcome": result.Outcome,
	})
}

// HandleUpdate applies a partial update.
// @Summary Update inventory item
// @Description Partially update one item; moving onto another item's natural key is a conflict.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param update body models.InventoryUpdate true "Fields to change"
// @Success 200 {object} models.InventoryItem "Updated item"
// @Failure 400 {object} map[string]any "Validation failure"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Natural key conflict"
// @Router /inventory/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var upd models.InventoryUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item, err := h.service.Update(c.Context(), uint(id), &upd)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Inventory update failed", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(item)
}

// HandleDelete removes one item.
// @Summary Delete inventory item
// @Tags inventory
// @Param id path int true "Item ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /inventory/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Inventory delete failed", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
