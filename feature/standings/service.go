package standings

import (
	"os"

	"olympics-tracker/core/render"
	"olympics-tracker/core/store"
	"olympics-tracker/feature/standings/models"

	"go.uber.org/zap"
)

// Service loads snapshots and renders the display page for the handlers.
type Service struct {
	store        *store.Store
	renderer     *render.Renderer
	templatePath string
	logger       *zap.Logger
}

// NewService creates a new standings service.
func NewService(st *store.Store, renderer *render.Renderer, templatePath string, logger *zap.Logger) *Service {
	return &Service{
		store:        st,
		renderer:     renderer,
		templatePath: templatePath,
		logger:       logger,
	}
}

// Snapshot returns the current persisted dataset.
func (s *Service) Snapshot() (*models.Snapshot, error) {
	return s.store.Load()
}

// Page renders the display document from the current snapshot.
func (s *Service) Page() ([]byte, error) {
	template, err := os.ReadFile(s.templatePath)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(template, snap)
}
