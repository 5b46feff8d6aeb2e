package routes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/handler/api"
	"github.com/saod-ux/saas-project-sub000/internal/middleware"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/telemetry"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

// Deps contains everything the HTTP server is built from.
type Deps struct {
	Logger zerolog.Logger
	Prod   bool

	// Tenant resolution
	BaseDomain string
	Resolver   tenant.Resolver

	// Auth
	Verifier    middleware.Verifier
	Memberships middleware.MembershipFinder

	// Checker runs business rules before handlers. Services check them
	// again inside their write transaction.
	Checker rules.Checker

	// Metrics
	HTTPMetrics *middleware.Metrics
	Business    *telemetry.BusinessMetrics
	Gatherer    prometheus.Gatherer

	Handlers Handlers
}

// Handlers contains the API handlers.
type Handlers struct {
	Products   *api.ProductHandler
	Categories *api.CategoryHandler
	Orders     *api.OrderHandler
	Carts      *api.CartHandler
	Customers  *api.CustomerHandler
	Settings   *api.SettingsHandler
	Members    *api.MemberHandler
	Tenants    *api.TenantHandler
	Health     *api.HealthHandler
}
