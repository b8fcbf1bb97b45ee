package invoice

import (
	"chefcode/core/ai"
	"chefcode/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the invoice service and handler into the application.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the invoice feature.
func NewFeature(db *gorm.DB, storageClient storage.Client, bucket string, aiClient ai.Client, logger *zap.Logger, onChange func()) *Feature {
	service := NewService(db, storageClient, bucket, aiClient, logger, onChange)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "invoice"
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
