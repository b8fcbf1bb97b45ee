package assistant

import (
	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes assistant HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new assistant handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the assistant endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/assistant")
	group.Post("/parse", h.HandleParse)
	group.Get("/health", h.HandleHealth)
}

// HandleParse godoc
// @Summary Parse a kitchen command
// @Description Extracts a structured inventory item and intent from one natural-language command
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body ParseRequest true "Command to parse"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /assistant/parse [post]
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	resp, err := h.service.Parse(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Assistant parse failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(resp)
}

// HandleHealth godoc
// @Summary Assistant health
// @Description Reports whether the generative model is configured
// @Tags assistant
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /assistant/health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(h.service.Health())
}
