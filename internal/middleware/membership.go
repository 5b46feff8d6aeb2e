package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

// MembershipFinder loads a user's membership in a tenant.
type MembershipFinder interface {
	GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error)
}

// LoadMembership attaches the caller's membership in the resolved tenant.
// Requests without a user or tenant, and users with no membership, pass
// through without one.
func LoadMembership(f MembershipFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			ctx := r.Context()

			user := domain.UserFromContext(ctx)
			t := tenant.FromContext(ctx)
			if user == nil || t == nil {
				return next(c)
			}

			m, err := f.GetMembership(ctx, t.ID, user.ID)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					return next(c)
				}
				zerolog.Ctx(ctx).Error().Err(err).Msg("membership lookup failed")
				return domain.Internal(err, "middleware.loadMembership", "failed to load membership")
			}

			c.SetRequest(r.WithContext(domain.NewContextWithMembership(ctx, m)))
			return next(c)
		}
	}
}

// RequireRole allows callers whose active membership ranks at least role.
// Platform admins pass every role check.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			user := domain.UserFromContext(ctx)
			if user == nil {
				return domain.Unauthorized("middleware.requireRole", "Authentication required")
			}
			if user.PlatformAdmin {
				return next(c)
			}

			m := domain.MembershipFromContext(ctx)
			if !m.Allows(role) {
				zerolog.Ctx(ctx).Info().Str("required_role", string(role)).Msg("insufficient role")
				return domain.Forbidden("middleware.requireRole", "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequirePlatformAdmin allows platform operators only.
func RequirePlatformAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := domain.UserFromContext(c.Request().Context())
		if user == nil {
			return domain.Unauthorized("middleware.requirePlatformAdmin", "Authentication required")
		}
		if !user.PlatformAdmin {
			return domain.Forbidden("middleware.requirePlatformAdmin", "Platform access required")
		}
		return next(c)
	}
}
