package standings

import (
	"errors"

	"olympics-tracker/core/logger"
	"olympics-tracker/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the standings feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the standings routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandlePage)
	app.Get("/healthz", h.HandleHealth)

	api := app.Group("/api")
	api.Get("/snapshot", h.HandleSnapshot)
	api.Get("/medals", h.HandleMedals)
}

// HandlePage serves the rendered schedule page.
func (h *Handler) HandlePage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.Page()
	if err != nil {
		l.Error("Page render failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Type("html").Send(page)
}

// HandleSnapshot serves the full dataset snapshot.
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snap, err := h.service.Snapshot()
	if err != nil {
		l.Error("Snapshot load failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

// HandleMedals serves only the medal tally.
func (h *Handler) HandleMedals(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snap, err := h.service.Snapshot()
	if err != nil {
		l.Error("Snapshot load failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap.Medals)
}

// HandleHealth reports dataset freshness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	snap, err := h.service.Snapshot()
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{"status": "error", "error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":       "ok",
		"last_updated": snap.LastUpdated,
		"last_checked": snap.LastChecked,
		"provenance":   snap.Provenance,
	})
}
