package tenant

import "github.com/saod-ux/saas-project-sub000/internal/domain"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found by slug, domain or id.
	ErrTenantNotFound = &domain.Error{Code: domain.ENOTFOUND, Message: "Store not found"}

	// ErrTenantInactive is returned when a tenant exists but is not in active status.
	ErrTenantInactive = &domain.Error{Code: domain.ENOTFOUND, Message: "Store is not active"}

	// ErrTenantSuspended is returned for suspended tenants. Callers may retry later.
	ErrTenantSuspended = &domain.Error{Code: domain.EUNAVAILABLE, Message: "Store is temporarily unavailable"}

	// ErrNoTenant is returned when tenant context is required but not present.
	ErrNoTenant = &domain.Error{Code: domain.EINVALID, Message: "Store could not be determined from the request"}
)
