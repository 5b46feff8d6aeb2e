package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type SettingsHandler struct {
	settings SettingsService
}

func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, s)
}

// Update handles PUT /admin/settings. The body replaces the whole settings document.
func (h *SettingsHandler) Update(c echo.Context) error {
	s, err := h.settings.Update(c.Request().Context(), validation.Get[validation.StoreSettings](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, s)
}
