package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// NewContext returns a new context with the tenant attached.
func NewContext(ctx context.Context, t *domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, t)
}

// FromContext extracts the tenant from the context.
// Returns nil if no tenant is present.
func FromContext(ctx context.Context) *domain.Tenant {
	t, ok := ctx.Value(tenantContextKey).(*domain.Tenant)
	if !ok {
		return nil
	}
	return t
}

// MustFromContext extracts the tenant from the context.
// Panics if no tenant is present. Use only when tenant middleware
// has definitely run (e.g., in handlers behind RequireTenant).
func MustFromContext(ctx context.Context) *domain.Tenant {
	t := FromContext(ctx)
	if t == nil {
		panic("tenant.MustFromContext: no tenant in context")
	}
	return t
}

// IDFromContext returns the tenant ID from context, or uuid.Nil.
func IDFromContext(ctx context.Context) uuid.UUID {
	t := FromContext(ctx)
	if t == nil {
		return uuid.Nil
	}
	return t.ID
}
