package invoice

import (
	"io"

	"chefcode/core/logger"
	"chefcode/core/reconcile"
	"chefcode/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes invoice HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new invoice handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the invoice endpoints on the given router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/invoices")
	group.Post("/upload", h.HandleUpload)
	group.Post("/import", h.HandleImport)
	group.Delete("/:key", h.HandleDelete)
}

// HandleUpload godoc
// @Summary Upload an invoice scan
// @Description Stores the scan and extracts supplier, date and line items
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice scan (jpeg, png, webp or pdf)"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /invoices/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return server.RespondError(c, reconcile.NewValidationError("file is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return server.RespondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return server.RespondError(c, err)
	}

	resp, err := h.service.Upload(c.UserContext(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Invoice upload failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(resp)
}

// HandleImport godoc
// @Summary Import invoice line items
// @Description Merges reviewed line items into the inventory in one transaction
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Line items to import"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /invoices/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondError(c, reconcile.NewValidationError("body is not valid JSON"))
	}

	resp, err := h.service.Import(c.UserContext(), &req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Invoice import failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(resp)
}

// HandleDelete godoc
// @Summary Delete an invoice scan
// @Description Removes a stored scan by its storage key
// @Tags invoices
// @Produce json
// @Param key path string true "Storage key under the invoices/ prefix"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /invoices/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("key")); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Invoice delete failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
