package task

import (
	"strconv"

	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"
	"chefcode/feature/task/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes task HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new task handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the task endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/tasks")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Post("/", h.HandleAdd)
	group.Put("/:id/status", h.HandleUpdateStatus)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList godoc
// @Summary List tasks
// @Description Returns tasks newest first, optionally filtered by status
// @Tags tasks
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, in-progress, done)
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /tasks [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	status := c.Query("status")
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	tasks, total, err := h.service.List(c.UserContext(), status, limit, offset)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to list tasks", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"tasks":  tasks,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// HandleGet godoc
// @Summary Get a task
// @Description Returns one task by id
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} map[string]interface{}
// @Router /tasks/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	row, err := h.service.Get(c.UserContext(), uint(id))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to get task", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(row)
}

// HandleAdd godoc
// @Summary Save a task
// @Description Inserts a new task, or overwrites the existing one when the id is known
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body models.TaskRecord true "Task payload"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /tasks [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	var rec models.TaskRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, result, err := h.service.Add(c.UserContext(), &rec)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to save task", zap.Error(err))
		return server.RespondError(c, err)
	}

	status := fiber.StatusOK
	if result.Outcome == reconcile.OutcomeInserted {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"task":    row,
		"outcome": result.Outcome,
	})
}

// HandleUpdate godoc
// @Summary Update a task
// @Description Applies a partial update to one task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param task body models.TaskUpdate true "Fields to update"
// @Success 200 {object} models.Task
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tasks/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var upd models.TaskUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, err := h.service.Update(c.UserContext(), uint(id), &upd)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to update task", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(row)
}

// HandleUpdateStatus godoc
// @Summary Transition a task's status
// @Description Sets the task status; any transition is legal
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param status body object true "New status" SchemaExample({"status":"done"})
// @Success 200 {object} models.Task
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tasks/{id}/status [put]
func (h *Handler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, err := h.service.UpdateStatus(c.UserContext(), uint(id), body.Status)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to update task status",
			zap.Uint64("id", id), zap.String("status", body.Status), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(row)
}

// HandleDelete godoc
// @Summary Delete a task
// @Description Removes one task by id
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /tasks/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.service.Delete(c.UserContext(), uint(id)); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to delete task", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
