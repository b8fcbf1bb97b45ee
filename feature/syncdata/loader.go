package syncdata

import (
	"chefcode/feature/inventory"
	"chefcode/feature/recipe"
	"chefcode/feature/task"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the sync orchestrator, dispatcher, and handler into the
// application. It builds on the collection features' services.
type Feature struct {
	service    *Service
	dispatcher *Dispatcher
	handler    *Handler
}

// NewFeature creates the syncdata feature over the collection services.
func NewFeature(db *gorm.DB, logger *zap.Logger, cache *SnapshotCache, inv *inventory.Service, rec *recipe.Service, tasks *task.Service) *Feature {
	service := NewService(db, logger, cache, inv, rec, tasks)
	dispatcher := NewDispatcher(service)
	return &Feature{
		service:    service,
		dispatcher: dispatcher,
		handler:    NewHandler(service, dispatcher),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "syncdata"
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

// Service exposes the sync service.
func (f *Feature) Service() *Service {
	return f.service
}
