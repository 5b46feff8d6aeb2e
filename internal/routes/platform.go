package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler/api"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// RegisterPlatformRoutes registers the platform operator API. The group must
// already be restricted to platform admins. No tenant is resolved here.
func RegisterPlatformRoutes(g *echo.Group, deps Deps) {
	h := deps.Handlers
	slug := validation.Params[validation.SlugParam]()

	g.POST("/tenants", h.Tenants.Create,
		validation.Body[validation.CreateTenant](),
		rules.Enforce(deps.Checker, api.TenantCreateRule))
	g.GET("/tenants/:slug", h.Tenants.Get, slug)
	g.PATCH("/tenants/:slug", h.Tenants.Update, slug, validation.Body[validation.UpdateTenant]())
	g.POST("/tenants/:slug/plan", h.Tenants.ChangePlan, slug, validation.Body[validation.ChangePlan]())
}
