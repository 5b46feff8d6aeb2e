package api

import (
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// Rule request builders for rules.Enforce. They read input stored by the
// validation middleware, which must run first. Services check the same
// rules again inside their write transaction.

func ProductCreateRule(c echo.Context) (rules.Request, error) {
	t := tenant.FromContext(c.Request().Context())
	if t == nil {
		return nil, domain.ErrTenantRequired
	}
	in := validation.Get[validation.CreateProduct](c)
	return rules.ProductCreate{
		Plan:           t.Plan,
		SKU:            in.SKU,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		Inventory:      domain.Inventory(in.Inventory),
		CategoryIDs:    in.CategoryIDs,
	}, nil
}

func CartItemAddRule(c echo.Context) (rules.Request, error) {
	in := validation.Get[validation.CartItem](c)
	return rules.CartItemAdd{ProductID: in.ProductID, Quantity: in.Quantity}, nil
}

func OrderCreateRule(c echo.Context) (rules.Request, error) {
	in := validation.Get[validation.CreateOrder](c)
	lines := make([]rules.OrderLine, len(in.Items))
	for i, item := range in.Items {
		lines[i] = rules.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
	}
	return rules.OrderCreate{
		Items:    lines,
		Tax:      in.Tax,
		Shipping: in.Shipping,
		Discount: in.Discount,
		Total:    in.Total,
	}, nil
}

func OrderStatusChangeRule(c echo.Context) (rules.Request, error) {
	return rules.OrderStatusChange{
		OrderID: validation.Get[validation.IDParam](c).ID,
		To:      domain.OrderStatus(validation.Get[validation.UpdateOrderStatus](c).Status),
	}, nil
}

func CategoryCreateRule(c echo.Context) (rules.Request, error) {
	in := validation.Get[validation.CreateCategory](c)
	return rules.CategoryCreate{Slug: in.Slug, ParentID: in.ParentID}, nil
}

func CategoryUpdateRule(c echo.Context) (rules.Request, error) {
	in := validation.Get[validation.UpdateCategory](c)
	return rules.CategoryUpdate{
		CategoryID: validation.Get[validation.IDParam](c).ID,
		Slug:       in.Slug,
		ParentID:   in.ParentID.Ptr(),
	}, nil
}

func CategoryDeleteRule(c echo.Context) (rules.Request, error) {
	return rules.CategoryDelete{CategoryID: validation.Get[validation.IDParam](c).ID}, nil
}

func TenantCreateRule(c echo.Context) (rules.Request, error) {
	return rules.TenantCreate{Slug: validation.Get[validation.CreateTenant](c).Slug}, nil
}
