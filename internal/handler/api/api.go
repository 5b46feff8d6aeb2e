// Package api holds the JSON handlers of the storefront, merchant admin and
// platform APIs. Handlers read input stored by the validation middleware and
// return errors for handler.ErrorHandler to render.
package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// ProductService is implemented by *service.ProductService.
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, in validation.CreateProduct) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, in validation.UpdateProduct) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService is implemented by *service.CategoryService.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in validation.CreateCategory) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, in validation.UpdateCategory) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService is implemented by *service.OrderService.
type OrderService interface {
	Create(ctx context.Context, in validation.CreateOrder) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
}

// CartService is implemented by *service.CartService.
type CartService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, in validation.CartItem) (*domain.Cart, error)
	UpdateItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.Cart, error)
}

// CustomerService is implemented by *service.CustomerService.
type CustomerService interface {
	CreateGuest(ctx context.Context, in validation.CreateGuest) (*domain.TenantUser, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.TenantUser, error)
	List(ctx context.Context, page domain.Page) ([]domain.TenantUser, int, error)
	Link(ctx context.Context, id uuid.UUID, in validation.LinkCustomer) (*domain.TenantUser, error)
}

// SettingsService is implemented by *service.SettingsService.
type SettingsService interface {
	Get(ctx context.Context) (domain.StoreSettings, error)
	Update(ctx context.Context, in validation.StoreSettings) (domain.StoreSettings, error)
}

// MembershipService is implemented by *service.MembershipService.
type MembershipService interface {
	List(ctx context.Context) ([]domain.Membership, error)
	Invite(ctx context.Context, in validation.InviteMember) (*domain.Membership, error)
	Update(ctx context.Context, userID uuid.UUID, in validation.UpdateMember) (*domain.Membership, error)
	Deactivate(ctx context.Context, userID uuid.UUID) (*domain.Membership, error)
}

// TenantService is implemented by *service.TenantService.
type TenantService interface {
	Create(ctx context.Context, in validation.CreateTenant) (*domain.Tenant, error)
	Get(ctx context.Context, slug string) (*domain.Tenant, error)
	Update(ctx context.Context, slug string, in validation.UpdateTenant) (*domain.Tenant, error)
	ChangePlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error)
}

// List is the data of paginated responses.
type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func newList[T any](items []T, total, page, limit int) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Total: total, Page: page, Limit: limit}
}

func pageWindow(page, limit int) domain.Page {
	return domain.Page{Limit: limit, Offset: (page - 1) * limit}
}
