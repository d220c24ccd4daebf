package standings

import (
	"olympics-tracker/core/render"
	"olympics-tracker/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the standings service and handler for the loader.
type Feature struct {
	service *Service
}

// NewFeature creates the standings feature.
func NewFeature(st *store.Store, renderer *render.Renderer, templatePath string, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(st, renderer, templatePath, logger)}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "standings"
}

// IsEnabled reports whether the feature is active.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
