package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// Resolver resolves tenants from various identifiers.
// Lookups of unknown tenants return ErrTenantNotFound.
type Resolver interface {
	// BySlug resolves a tenant by subdomain slug, ignoring case.
	BySlug(ctx context.Context, slug string) (*domain.Tenant, error)

	// ByDomain resolves a tenant by its custom domain.
	ByDomain(ctx context.Context, domain string) (*domain.Tenant, error)

	// ByID resolves a tenant by ID.
	ByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// Resolve looks up the tenant named by l. A zero Lookup yields ErrNoTenant.
func Resolve(ctx context.Context, r Resolver, l Lookup) (*domain.Tenant, error) {
	switch {
	case l.Slug != "":
		return r.BySlug(ctx, l.Slug)
	case l.Domain != "":
		return r.ByDomain(ctx, l.Domain)
	}
	return nil, ErrNoTenant
}
