package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler/api"
	"github.com/saod-ux/saas-project-sub000/internal/middleware"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// RegisterAdminRoutes registers the merchant admin API. The group must
// already require an authenticated user and load the caller's membership.
//
// Roles: VIEWER reads and STAFF writes catalog and orders. ADMIN deletes,
// links customers and manages settings. OWNER manages members.
func RegisterAdminRoutes(g *echo.Group, deps Deps) {
	h := deps.Handlers
	viewer := middleware.RequireRole(domain.RoleViewer)
	staff := middleware.RequireRole(domain.RoleStaff)
	admin := middleware.RequireRole(domain.RoleAdmin)
	owner := middleware.RequireRole(domain.RoleOwner)
	id := validation.Params[validation.IDParam]()

	// Product management
	g.GET("/products", h.Products.List(false), viewer, validation.Query[validation.ProductFilter]())
	g.GET("/products/:id", h.Products.Get(false), viewer, id)
	g.POST("/products", h.Products.Create, staff,
		validation.Body[validation.CreateProduct](),
		rules.Enforce(deps.Checker, api.ProductCreateRule))
	g.PATCH("/products/:id", h.Products.Update, staff, id, validation.Body[validation.UpdateProduct]())
	g.DELETE("/products/:id", h.Products.Delete, admin, id)

	// Category management
	g.GET("/categories", h.Categories.List, viewer)
	g.POST("/categories", h.Categories.Create, staff,
		validation.Body[validation.CreateCategory](),
		rules.Enforce(deps.Checker, api.CategoryCreateRule))
	g.PATCH("/categories/:id", h.Categories.Update, staff, id,
		validation.Body[validation.UpdateCategory](),
		rules.Enforce(deps.Checker, api.CategoryUpdateRule))
	g.DELETE("/categories/:id", h.Categories.Delete, admin, id,
		rules.Enforce(deps.Checker, api.CategoryDeleteRule))

	// Order management
	g.GET("/orders", h.Orders.List, viewer, validation.Query[validation.OrderFilter]())
	g.GET("/orders/:id", h.Orders.Get, viewer, id)
	g.PATCH("/orders/:id/status", h.Orders.UpdateStatus, staff, id,
		validation.Body[validation.UpdateOrderStatus](),
		rules.Enforce(deps.Checker, api.OrderStatusChangeRule))

	// Customers
	g.GET("/customers", h.Customers.List, viewer, validation.Query[validation.Pagination]())
	g.GET("/customers/:id", h.Customers.Get, viewer, id)
	g.POST("/customers/:id/link", h.Customers.Link, admin, id, validation.Body[validation.LinkCustomer]())

	// Settings
	g.GET("/settings", h.Settings.Get, admin)
	g.PUT("/settings", h.Settings.Update, admin, validation.Body[validation.StoreSettings]())

	// Members
	member := validation.Params[validation.MemberParams]()
	g.GET("/members", h.Members.List, admin)
	g.POST("/members", h.Members.Invite, owner, validation.Body[validation.InviteMember]())
	g.PATCH("/members/:user_id", h.Members.Update, owner, member, validation.Body[validation.UpdateMember]())
	g.DELETE("/members/:user_id", h.Members.Deactivate, owner, member)
}
