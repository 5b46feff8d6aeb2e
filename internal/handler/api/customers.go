package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type CustomerHandler struct {
	customers CustomerService
}

func NewCustomerHandler(customers CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// CreateGuest handles POST /customers/guest. Repeating it with the same
// email returns the existing customer.
func (h *CustomerHandler) CreateGuest(c echo.Context) error {
	u, err := h.customers.CreateGuest(c.Request().Context(), validation.Get[validation.CreateGuest](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, u)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	u, err := h.customers.Get(c.Request().Context(), validation.Get[validation.IDParam](c).ID)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, u)
}

// List handles GET /admin/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	q := validation.Get[validation.Pagination](c)
	customers, total, err := h.customers.List(c.Request().Context(), pageWindow(q.Page, q.Limit))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, newList(customers, total, q.Page, q.Limit))
}

// Link handles POST /admin/customers/:id/link.
func (h *CustomerHandler) Link(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	u, err := h.customers.Link(c.Request().Context(), id, validation.Get[validation.LinkCustomer](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, u)
}
