package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// TenantHandler serves the platform operator's tenant endpoints.
type TenantHandler struct {
	tenants TenantService
}

func NewTenantHandler(tenants TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func (h *TenantHandler) Create(c echo.Context) error {
	t, err := h.tenants.Create(c.Request().Context(), validation.Get[validation.CreateTenant](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusCreated, t)
}

func (h *TenantHandler) Get(c echo.Context) error {
	t, err := h.tenants.Get(c.Request().Context(), validation.Get[validation.SlugParam](c).Slug)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, t)
}

func (h *TenantHandler) Update(c echo.Context) error {
	slug := validation.Get[validation.SlugParam](c).Slug
	t, err := h.tenants.Update(c.Request().Context(), slug, validation.Get[validation.UpdateTenant](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, t)
}

// ChangePlan handles POST /platform/tenants/:slug/plan.
func (h *TenantHandler) ChangePlan(c echo.Context) error {
	slug := validation.Get[validation.SlugParam](c).Slug
	plan := domain.Plan(validation.Get[validation.ChangePlan](c).Plan)

	t, err := h.tenants.ChangePlan(c.Request().Context(), slug, plan)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, t)
}
