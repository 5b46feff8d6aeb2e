package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// CustomerService manages the tenant's customer identities.
type CustomerService struct {
	customers Customers
	users     Users
}

func NewCustomerService(customers Customers, users Users) *CustomerService {
	return &CustomerService{customers: customers, users: users}
}

// CreateGuest returns the guest for the email, creating it on first use.
func (s *CustomerService) CreateGuest(ctx context.Context, in validation.CreateGuest) (*domain.TenantUser, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.customers.FindOrCreateGuest(ctx, t.ID, in.Email, in.Name, in.Phone)
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*domain.TenantUser, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.customers.Get(ctx, t.ID, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCustomerNotFound)
	}
	return u, nil
}

func (s *CustomerService) List(ctx context.Context, page domain.Page) ([]domain.TenantUser, int, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	customers, err := s.customers.List(ctx, t.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customers.Count(ctx, t.ID)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Link turns a guest into a registered customer of userID. Relinking a
// customer to a different user is a conflict.
func (s *CustomerService) Link(ctx context.Context, id uuid.UUID, in validation.LinkCustomer) (*domain.TenantUser, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	u, err := s.customers.Link(ctx, t.ID, id, in.UserID)
	if err != nil {
		return nil, notFoundAs(err, ErrCustomerNotFound)
	}
	return u, nil
}
