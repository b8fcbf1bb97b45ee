package recipe

import (
	"strconv"

	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"
	"chefcode/feature/recipe/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes recipe HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new recipe handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the recipe endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/recipes")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Post("/", h.HandleSave)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList godoc
// @Summary List recipes
// @Description Returns recipes ordered by name, with parsed ingredient lists
// @Tags recipes
// @Produce json
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /recipes [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	recipes, total, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("failed to list recipes", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// HandleGet godoc
// @Summary Get a recipe
// @Description Returns one recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeView
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	row, err := h.service.Get(c.UserContext(), uint(id))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to get recipe", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(row.View())
}

// HandleSave godoc
// @Summary Save a recipe
// @Description Inserts a new recipe, or overwrites the existing one when the id is known
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.RecipeRecord true "Recipe payload"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /recipes [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var rec models.RecipeRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, result, err := h.service.Save(c.UserContext(), &rec)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to save recipe", zap.Error(err))
		return server.RespondError(c, err)
	}

	status := fiber.StatusOK
	if result.Outcome == reconcile.OutcomeInserted {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"recipe":  row.View(),
		"outcome": result.Outcome,
	})
}

// HandleUpdate godoc
// @Summary Update a recipe
// @Description Applies a partial update to one recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body models.RecipeUpdate true "Fields to update"
// @Success 200 {object} models.RecipeView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var upd models.RecipeUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	row, err := h.service.Update(c.UserContext(), uint(id), &upd)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to update recipe", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(row.View())
}

// HandleDelete godoc
// @Summary Delete a recipe
// @Description Removes one recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if err := h.service.Delete(c.UserContext(), uint(id)); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("failed to delete recipe", zap.Uint64("id", id), zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
