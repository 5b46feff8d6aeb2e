package service

import (
	"context"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

var (
	ErrProductNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrCategoryNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Category not found")
	ErrOrderNotFound      = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrCartNotFound       = domain.Errorf(domain.ENOTFOUND, "", "Cart not found")
	ErrCartItemNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
	ErrMemberNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Member not found")
	ErrCustomerNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Customer not found")
	ErrUserNotFound       = domain.Errorf(domain.ENOTFOUND, "", "User not found")
	ErrAlreadyMember      = domain.Errorf(domain.ECONFLICT, "", "User is already a member of this store")
	ErrLastOwner          = domain.Errorf(domain.ECONFLICT, "", "A store must keep at least one active owner")
	ErrOrderStatusInvalid = domain.Errorf(domain.EINVALID, "", "Unknown order status")
)

// tenantFromContext returns the tenant resolved for this request.
//
// Every tenant-scoped service method starts here, so the tenant is always
// the one the request was resolved to and never a caller-supplied id.
func tenantFromContext(ctx context.Context) (*domain.Tenant, error) {
	t := tenant.FromContext(ctx)
	if t == nil {
		return nil, tenant.ErrNoTenant
	}
	return t, nil
}

// notFoundAs replaces a not-found error with the service's own error so
// clients see a stable message.
func notFoundAs(err, replacement error) error {
	if domain.IsCode(err, domain.ENOTFOUND) {
		return replacement
	}
	return err
}
