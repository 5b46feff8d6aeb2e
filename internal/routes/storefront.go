package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler/api"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// RegisterStorefrontRoutes registers the customer-facing API of a tenant.
// The tenant comes from the host or the X-Tenant-Slug header.
func RegisterStorefrontRoutes(g *echo.Group, deps Deps) {
	h := deps.Handlers

	// Catalog
	g.GET("/products", h.Products.List(true), validation.Query[validation.ProductFilter]())
	g.GET("/products/:id", h.Products.Get(true), validation.Params[validation.IDParam]())
	g.GET("/categories", h.Categories.List)

	// Cart
	g.GET("/cart/:id", h.Carts.Get, validation.Params[validation.IDParam]())
	g.POST("/cart/:id/items", h.Carts.AddItem,
		validation.Params[validation.IDParam](),
		validation.Body[validation.CartItem](),
		rules.Enforce(deps.Checker, api.CartItemAddRule))
	g.PATCH("/cart/:id/items/:product_id", h.Carts.UpdateItem,
		validation.Params[validation.CartItemParams](),
		validation.Body[validation.UpdateCartItem]())
	g.DELETE("/cart/:id/items/:product_id", h.Carts.RemoveItem,
		validation.Params[validation.CartItemParams]())

	// Checkout
	g.POST("/orders", h.Orders.Checkout,
		validation.Body[validation.CreateOrder](),
		rules.Enforce(deps.Checker, api.OrderCreateRule))
	g.POST("/customers/guest", h.Customers.CreateGuest, validation.Body[validation.CreateGuest]())
}
