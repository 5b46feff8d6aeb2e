package routes

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/middleware"
)

// New builds the HTTP server with every route registered.
//
// Middleware order, outermost first: request id, request logger, security
// headers, panic recovery, HTTP metrics, validation failure counting,
// authentication. Tenant resolution runs on the /api/v1 group only.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echo.WrapMiddleware(middleware.RequestID))
	e.Use(echo.WrapMiddleware(middleware.WithRequestLogger(deps.Logger)))
	e.Use(echo.WrapMiddleware(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(deps.Prod))))
	e.Use(echomw.Recover())
	if deps.HTTPMetrics != nil {
		e.Use(deps.HTTPMetrics.Middleware())
	}
	if deps.Business != nil {
		e.Use(deps.Business.CountValidationFailures())
	}
	e.Use(middleware.Authenticate(deps.Verifier))

	RegisterOpsRoutes(e, deps)

	tenantAPI := e.Group("/api/v1",
		middleware.ResolveTenant(middleware.TenantConfig{
			BaseDomain: deps.BaseDomain,
			Resolver:   deps.Resolver,
		}),
		middleware.RequireTenant,
	)
	RegisterStorefrontRoutes(tenantAPI, deps)
	RegisterAdminRoutes(tenantAPI.Group("/admin", middleware.RequireAuth, middleware.LoadMembership(deps.Memberships)), deps)

	RegisterPlatformRoutes(e.Group("/platform", middleware.RequireAuth, middleware.RequirePlatformAdmin), deps)

	return e
}

// RegisterOpsRoutes registers health and metrics endpoints. They need no tenant.
func RegisterOpsRoutes(e *echo.Echo, deps Deps) {
	e.GET("/health", deps.Handlers.Health.Health)
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
}
