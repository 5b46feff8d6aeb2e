package rules

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// Reader is the tenant-bound view of the catalog the rules read from.
// Implementations are already scoped to one tenant; lookups of absent
// entities return a domain.ENOTFOUND error.
type Reader interface {
	CountProducts(ctx context.Context) (int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CountChildCategories(ctx context.Context, id uuid.UUID) (int, error)
	CountCategoryProducts(ctx context.Context, id uuid.UUID) (int, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// Directory is the platform-wide tenant lookup used by tenant rules.
type Directory interface {
	// GetTenantBySlug matches slugs case-insensitively.
	GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// Checker evaluates a rule request.
type Checker interface {
	Check(ctx context.Context, req Request) (Result, error)
}

// Engine evaluates rule requests against a Reader and a Directory.
// A nil Directory is fine for engines that never see tenant requests.
type Engine struct {
	reader Reader
	dir    Directory
}

var _ Checker = (*Engine)(nil)

func NewEngine(reader Reader, dir Directory) *Engine {
	return &Engine{reader: reader, dir: dir}
}

// Check dispatches req to its rule family.
func (e *Engine) Check(ctx context.Context, req Request) (Result, error) {
	switch r := req.(type) {
	case ProductCreate:
		return e.CheckProductCreate(ctx, r)
	case ProductUpdate:
		return e.CheckProductUpdate(ctx, r)
	case OrderCreate:
		return e.CheckOrderCreate(ctx, r)
	case OrderStatusChange:
		return e.CheckOrderStatusChange(ctx, r)
	case CategoryCreate:
		return e.CheckCategoryCreate(ctx, r)
	case CategoryUpdate:
		return e.CheckCategoryUpdate(ctx, r)
	case CategoryDelete:
		return e.CheckCategoryDelete(ctx, r)
	case TenantCreate:
		return e.CheckTenantCreate(ctx, r)
	case TenantPlanChange:
		return ValidatePlanChange(r.Current, r.Requested), nil
	case CartItemAdd:
		return e.CheckCartItem(ctx, r)
	default:
		return Result{}, fmt.Errorf("rules: unsupported request %T", req)
	}
}

// found turns a not-found lookup error into false, passing other errors through.
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if domain.IsCode(err, domain.ENOTFOUND) {
		return false, nil
	}
	return false, err
}
