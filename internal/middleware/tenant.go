// Package middleware provides the HTTP middleware for the storefront API.
//
// This file contains tenant resolution: the tenant is named by the request
// host, by the X-Tenant-Slug header, or by both, in which case they must agree.
package middleware

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

// TenantHeader carries an explicit tenant slug on API requests.
const TenantHeader = "X-Tenant-Slug"

// RetryAfterSuspended is the Retry-After value, in seconds, sent for suspended stores.
const RetryAfterSuspended = "3600"

// TenantConfig holds configuration for tenant resolution middleware.
type TenantConfig struct {
	// BaseDomain is the platform apex (e.g., "shops.example" or "localhost").
	// Requests to the apex carry no tenant in the host.
	BaseDomain string

	// Resolver is the tenant resolver, usually a *tenant.CachedResolver.
	Resolver tenant.Resolver
}

// ResolveTenant creates middleware that resolves the tenant for a request.
//
// Resolution order:
//  1. X-Tenant-Slug header, if present
//  2. Request host, parsed with tenant.ParseHost unless it is the BaseDomain apex
//     or its first label is a reserved slug
//  3. If both name a tenant they must resolve to the same one, else ErrTenantMismatch
//
// After resolution, tenant status is checked:
//   - "active": continue normally, tenant added to context
//   - "pending", "inactive": 404 (storefront doesn't exist yet or anymore)
//   - "suspended": 503 with Retry-After
//
// Requests that name no tenant pass through untouched; RequireTenant rejects them
// on routes that need one.
func ResolveTenant(cfg TenantConfig) echo.MiddlewareFunc {
	base := strings.ToLower(stripPort(cfg.BaseDomain))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			ctx := r.Context()
			logger := zerolog.Ctx(ctx)

			var fromHost tenant.Lookup
			if host := strings.ToLower(stripPort(r.Host)); host != base {
				fromHost = tenant.ParseHost(r.Host)
			}
			// Platform hosts such as api.<base> name no tenant.
			if rules.IsReservedSlug(fromHost.Slug) {
				fromHost = tenant.Lookup{}
			}
			headerSlug := strings.ToLower(strings.TrimSpace(r.Header.Get(TenantHeader)))

			if headerSlug == "" && fromHost.IsZero() {
				return next(c)
			}

			var (
				t   *domain.Tenant
				err error
			)
			if headerSlug != "" {
				t, err = cfg.Resolver.BySlug(ctx, headerSlug)
			} else {
				t, err = tenant.Resolve(ctx, cfg.Resolver, fromHost)
			}
			if err != nil {
				return tenantLookupError(logger, err)
			}

			if headerSlug != "" && !fromHost.IsZero() {
				if !matchesHost(t, fromHost) {
					logger.Info().
						Str("header_slug", headerSlug).
						Str("host", r.Host).
						Msg("tenant header does not match host")
					return domain.ErrTenantMismatch
				}
			}

			switch t.Status {
			case domain.TenantStatusActive:
				// Continue normally
			case domain.TenantStatusSuspended:
				c.Response().Header().Set("Retry-After", RetryAfterSuspended)
				return tenant.ErrTenantSuspended
			case domain.TenantStatusPending, domain.TenantStatusInactive:
				return tenant.ErrTenantInactive
			default:
				logger.Warn().Str("tenant_id", t.ID.String()).Str("status", string(t.Status)).Msg("unknown tenant status")
				return tenant.ErrTenantInactive
			}

			ctx = tenant.NewContext(ctx, t)
			ctx = logger.With().Str("tenant", t.Slug).Logger().WithContext(ctx)
			c.SetRequest(r.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireTenant ensures a tenant is present in context.
// This should be applied AFTER ResolveTenant middleware.
func RequireTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tenant.FromContext(c.Request().Context()) == nil {
			return tenant.ErrNoTenant
		}
		return next(c)
	}
}

// matchesHost reports whether t is the tenant the host names.
func matchesHost(t *domain.Tenant, l tenant.Lookup) bool {
	if l.Slug != "" {
		return strings.EqualFold(t.Slug, l.Slug)
	}
	return t.Domain != nil && strings.EqualFold(*t.Domain, l.Domain)
}

func tenantLookupError(logger *zerolog.Logger, err error) error {
	if domain.IsCode(err, domain.ENOTFOUND) {
		return tenant.ErrTenantNotFound
	}
	logger.Error().Err(err).Msg("tenant resolution failed")
	return domain.Internal(err, "middleware.resolveTenant", "failed to resolve store")
}

// stripPort removes the port from a host string.
// Returns the host unchanged if no port is present.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
