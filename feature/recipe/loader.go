package recipe

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the recipe service and handler into the application.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the recipe feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, onChange func()) *Feature {
	service := NewService(db, logger, onChange)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "recipe"
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

// Service exposes the recipe service to other features.
func (f *Feature) Service() *Service {
	return f.service
}
