package rules

import (
	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Request is the closed set of rule inputs. Each variant carries exactly the
// context its rule family reads.
type Request interface {
	// Family names the rule family, used in logs and metrics.
	Family() string
	isRequest()
}

// ProductCreate checks a new product against the tenant's plan and catalog.
type ProductCreate struct {
	Plan           domain.Plan
	SKU            *string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Inventory      domain.Inventory
	CategoryIDs    []uuid.UUID
}

// ProductUpdate checks changes merged over the stored product. Nil fields are unchanged.
type ProductUpdate struct {
	ProductID      uuid.UUID
	SKU            *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	// ClearCompareAtPrice drops the stored compare-at price.
	ClearCompareAtPrice bool
	Inventory           *domain.Inventory
	CategoryIDs         []uuid.UUID
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// OrderCreate checks stock and the declared total of a new order.
type OrderCreate struct {
	Items    []OrderLine
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// OrderStatusChange checks a fulfillment transition of a stored order.
type OrderStatusChange struct {
	OrderID uuid.UUID
	To      domain.OrderStatus
}

type CategoryCreate struct {
	Slug     string
	ParentID *uuid.UUID
}

type CategoryUpdate struct {
	CategoryID uuid.UUID
	Slug       *string
	ParentID   *uuid.UUID
}

type CategoryDelete struct {
	CategoryID uuid.UUID
}

// TenantCreate checks a proposed slug against reserved words and existing tenants.
type TenantCreate struct {
	Slug string
}

type TenantPlanChange struct {
	Current   domain.Plan
	Requested domain.Plan
}

// CartItemAdd checks the resulting quantity of a cart line.
type CartItemAdd struct {
	ProductID uuid.UUID
	Quantity  int
}

func (ProductCreate) Family() string     { return "product" }
func (ProductUpdate) Family() string     { return "product" }
func (OrderCreate) Family() string       { return "order" }
func (OrderStatusChange) Family() string { return "order_status" }
func (CategoryCreate) Family() string    { return "category" }
func (CategoryUpdate) Family() string    { return "category" }
func (CategoryDelete) Family() string    { return "category" }
func (TenantCreate) Family() string      { return "tenant" }
func (TenantPlanChange) Family() string  { return "tenant" }
func (CartItemAdd) Family() string       { return "cart" }

func (ProductCreate) isRequest()     {}
func (ProductUpdate) isRequest()     {}
func (OrderCreate) isRequest()       {}
func (OrderStatusChange) isRequest() {}
func (CategoryCreate) isRequest()    {}
func (CategoryUpdate) isRequest()    {}
func (CategoryDelete) isRequest()    {}
func (TenantCreate) isRequest()      {}
func (TenantPlanChange) isRequest()  {}
func (CartItemAdd) isRequest()       {}
