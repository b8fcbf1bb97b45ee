package integrity

import (
	"chefcode/core/logger"
	"chefcode/core/server"
	"chefcode/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.DatabaseReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Post("/storage", h.HandleStorageFix)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Storage, Database).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if storageReport, err := h.service.CheckStorage(c.Context()); err != nil {
		report["storage"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = storageReport
	}

	if dbReport, err := h.service.CheckDatabase(); err != nil {
		report["database"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["database"] = dbReport
	}

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the storage layout.
// @Summary Check Storage Layout
// @Description Checks that the bucket and its required prefixes exist. Optionally creates what is missing.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create missing bucket and prefixes"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 503 {object} map[string]string "Storage Unreachable"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	if !report.Healthy() {
		l.Warn("Storage layout incomplete",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Strings("missing_prefixes", report.MissingPrefixes))

		if fix {
			l.Info("Attempting to fix storage layout")
			if err := h.service.FixStorage(c.Context(), report); err != nil {
				l.Error("Storage fix failed", zap.Error(err))
				return server.RespondError(c, err)
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  report,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"report": report,
	})
}

// HandleStorageFix checks the storage layout and creates what is missing.
// @Summary Fix Storage Layout
// @Description Checks that the bucket and its required prefixes exist and creates what is missing.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 503 {object} map[string]string "Storage Unreachable"
// @Router /integrity/storage [post]
func (h *Handler) HandleStorageFix(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	if report.Healthy() {
		return c.JSON(fiber.Map{
			"status": "checked",
			"report": report,
		})
	}

	if err := h.service.FixStorage(c.Context(), report); err != nil {
		l.Error("Storage fix failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "fixed",
		"fixed":  report,
	})
}

// HandleDatabaseCheck checks the database schema.
// @Summary Check Database Schema
// @Description Verifies the required tables exist and reports row and column counts.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.DatabaseReport "Database Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Database check failed", zap.Error(err))
		return server.RespondError(c, err)
	}

	return c.JSON(report)
}
