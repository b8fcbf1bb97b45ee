package syncdata

import (
	"errors"

	"chefcode/core/logger"
	"chefcode/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the sync, action, and snapshot HTTP endpoints.
type Handler struct {
	service    *Service
	dispatcher *Dispatcher
}

// NewHandler creates a new syncdata handler.
func NewHandler(service *Service, dispatcher *Dispatcher) *Handler {
	return &Handler{service: service, dispatcher: dispatcher}
}

// RegisterRoutes mounts the syncdata endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/sync-data", h.HandleSync)
	router.Post("/action", h.HandleAction)
	router.Get("/data", h.HandleData)
	router.Get("/sync-journal", h.HandleJournal)
}

// HandleSync godoc
// @Summary Synchronize a full client snapshot
// @Description Merges inventory, recipes, and tasks in one transaction and returns the post-merge snapshot with per-item results
// @Tags sync
// @Accept json
// @Produce json
// @Param snapshot body SyncRequest true "Client snapshot"
// @Success 200 {object} SyncResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /sync-data [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.service.Synchronize(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("sync failed",
			zap.Int("records", req.Size()), zap.Error(err))
		if resp != nil {
			// The per-item failures still go back so the client knows
			// nothing from this call persisted.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   err.Error(),
				"results": resp.Results,
			})
		}
		return server.RespondError(c, err)
	}

	logger.WithRayID(h.service.logger, c).Info("sync completed",
		zap.Int("records", req.Size()),
		zap.Int("inserted", resp.Summary.Inserted),
		zap.Int("updated", resp.Summary.Updated),
		zap.Int("merged", resp.Summary.Merged),
		zap.Int("rejected", resp.Summary.Rejected))

	return c.JSON(resp)
}

// HandleAction godoc
// @Summary Dispatch one action
// @Description Routes a single user action (add-inventory, save-recipe, add-task, update-task-status) into the store
// @Tags sync
// @Accept json
// @Produce json
// @Param action body ActionRequest true "Action and payload"
// @Success 200 {object} ActionResult
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /action [post]
func (h *Handler) HandleAction(c *fiber.Ctx) error {
	var req ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.dispatcher.Dispatch(c.UserContext(), &req)
	if err != nil {
		var unknown *UnknownActionError
		if errors.As(err, &unknown) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": unknown.Error()})
		}
		logger.WithRayID(h.service.logger, c).Warn("action failed",
			zap.String("action", req.Action), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(result)
}

// HandleData godoc
// @Summary Current snapshot
// @Description Returns the current state of all three collections, served through the snapshot cache
// @Tags sync
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 500 {object} map[string]interface{}
// @Router /data [get]
func (h *Handler) HandleData(c *fiber.Ctx) error {
	snap, err := h.service.CachedSnapshot(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("failed to build snapshot", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(snap)
}

// HandleJournal godoc
// @Summary Recent sync journal
// @Description Returns the most recent synchronization journal rows, newest first
// @Tags sync
// @Produce json
// @Param limit query int false "Max rows" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /sync-journal [get]
func (h *Handler) HandleJournal(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	rows, err := h.service.ListJournal(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("failed to list sync journal", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"journal": rows})
}
