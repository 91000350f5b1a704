package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chillwithnegi/Leafora/internal/marketplace"
)

// Handlers serves the settings endpoints backed by the settings store.
type Handlers struct {
	store *PGSettingsStore
}

func NewHandlers(store *PGSettingsStore) *Handlers {
	return &Handlers{store: store}
}

// GET /admin/settings
func (h *Handlers) GetSettings(c echo.Context) error {
	settings, err := h.store.Get(context.Background())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

// PUT /admin/settings
func (h *Handlers) UpdateSettings(c echo.Context) error {
	// Bind over the current row so fields absent from the payload keep
	// their saved values.
	current, err := h.store.Get(context.Background())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load settings"})
	}
	req := &current
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CommissionRate < 0 || req.CommissionRate > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "commission rate must be between 0 and 100"})
	}
	for _, cat := range req.FeaturedCategories {
		if !marketplace.ValidCategory(cat) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category: " + cat})
		}
	}
	if err := h.store.Update(context.Background(), *req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
