package webrecipe

import (
	"chefcode/core/ai"
	"chefcode/feature/recipe"
	"chefcode/feature/webrecipe/mealdb"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the web recipe service and handler into the application.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the web recipe feature.
func NewFeature(db *gorm.DB, aiClient ai.Client, mealdbClient *mealdb.Client, recipes *recipe.Service, logger *zap.Logger) *Feature {
	service := NewService(db, aiClient, mealdbClient, recipes, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "webrecipe"
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
