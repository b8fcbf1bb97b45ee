package webrecipe

import (
	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes web recipe HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new web recipe handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the web recipe endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/web-recipes")
	group.Post("/interpret", h.HandleInterpret)
	group.Post("/search", h.HandleSearch)
	group.Post("/map-ingredients", h.HandleMapIngredients)
	group.Post("/save", h.HandleSave)
}

// HandleInterpret godoc
// @Summary Interpret a recipe search query
// @Description Turns a natural-language query into structured search filters
// @Tags web-recipes
// @Accept json
// @Produce json
// @Param request body InterpretRequest true "Query to interpret"
// @Success 200 {object} Interpretation
// @Failure 400 {object} map[string]interface{}
// @Router /web-recipes/interpret [post]
func (h *Handler) HandleInterpret(c *fiber.Ctx) error {
	var req InterpretRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	in, err := h.service.Interpret(c.UserContext(), req.Query)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Query interpretation failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(in)
}

// HandleSearch godoc
// @Summary Search web recipes
// @Description Searches TheMealDB with interpreted filters
// @Tags web-recipes
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search filters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /web-recipes/search [post]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	recipes, err := h.service.Search(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Web recipe search failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"recipes": recipes,
		"total":   len(recipes),
	})
}

// HandleMapIngredients godoc
// @Summary Map web recipe ingredients to inventory
// @Description Matches each ingredient against the current inventory
// @Tags web-recipes
// @Accept json
// @Produce json
// @Param request body MapRequest true "Ingredients to map"
// @Success 200 {object} MapResponse
// @Failure 400 {object} map[string]interface{}
// @Router /web-recipes/map-ingredients [post]
func (h *Handler) HandleMapIngredients(c *fiber.Ctx) error {
	var req MapRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	resp, err := h.service.MapIngredients(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Ingredient mapping failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(resp)
}

// HandleSave godoc
// @Summary Save a web recipe
// @Description Persists a web recipe into the catalogue with its metadata
// @Tags web-recipes
// @Accept json
// @Produce json
// @Param request body SaveRequest true "Recipe to save"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /web-recipes/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var req SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	row, err := h.service.Save(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Web recipe save failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recipe": row.View(),
	})
}
