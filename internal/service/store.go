package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
)

// Tx is one transaction bound to a single tenant. Every read and write made
// through it is confined to that tenant's rows.
//
// Tx embeds rules.Reader so a rule check and the write it guards share the
// same snapshot.
type Tx interface {
	rules.Reader

	// LockCatalog serializes catalog writers of the tenant until the
	// transaction ends.
	LockCatalog(ctx context.Context) error
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	// LockProducts takes row locks on the given products until the
	// transaction ends. Missing ids are ignored.
	LockProducts(ctx context.Context, ids []uuid.UUID) error
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DecrementInventory(ctx context.Context, id uuid.UUID, quantity int) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// CreateOrder assigns the order number and stores the order with its items.
	CreateOrder(ctx context.Context, o *domain.Order) error
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	// LockOrder takes a row lock on the order until the transaction ends.
	// A missing order is not an error.
	LockOrder(ctx context.Context, id uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error

	// LockCart serializes writers of the cart until the transaction ends,
	// including the one that first creates it.
	LockCart(ctx context.Context, id uuid.UUID) error
	GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	SaveCart(ctx context.Context, c *domain.Cart) error

	// LockMembers serializes membership changes of the tenant until the
	// transaction ends.
	LockMembers(ctx context.Context) error
	GetMembership(ctx context.Context, userID uuid.UUID) (*domain.Membership, error)
	ListMemberships(ctx context.Context) ([]domain.Membership, error)
	SaveMembership(ctx context.Context, m *domain.Membership) error
}

// Database opens tenant transactions.
type Database interface {
	// InTenant runs fn inside a transaction scoped to tenantID. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx Tx) error) error
}

// Directory is the platform-level store of tenants and users. It is not
// tenant scoped and is only reachable from platform operations.
type Directory interface {
	rules.Directory

	GetTenantByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	// CreateTenant stores the tenant together with its owner membership.
	CreateTenant(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error
	UpdateTenant(ctx context.Context, t *domain.Tenant) error
	// PurgeTenant hard-deletes the tenant and every row it owns.
	PurgeTenant(ctx context.Context, id uuid.UUID) error

	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Users looks up global user accounts.
type Users interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Customers stores the tenant-scoped customer identities.
type Customers interface {
	FindOrCreateGuest(ctx context.Context, tenantID uuid.UUID, email, name, phone string) (*domain.TenantUser, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.TenantUser, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.TenantUser, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	// Link attaches a registered user to the customer.
	Link(ctx context.Context, tenantID, id, userID uuid.UUID) (*domain.TenantUser, error)
}

// Invalidator drops cached copies of a tenant.
type Invalidator interface {
	InvalidateTenant(t *domain.Tenant)
}

// Recorder counts rule outcomes.
type Recorder interface {
	RuleViolation(family, code string)
}

type nopRecorder struct{}

func (nopRecorder) RuleViolation(string, string) {}
