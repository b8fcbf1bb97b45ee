package assistant

import (
	"chefcode/core/ai"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the assistant service and handler into the application.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the assistant feature.
func NewFeature(client ai.Client, logger *zap.Logger) *Feature {
	service := NewService(client, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "assistant"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
