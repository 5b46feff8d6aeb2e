package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout handles POST /orders.
func (h *OrderHandler) Checkout(c echo.Context) error {
	order, err := h.orders.Create(c.Request().Context(), validation.Get[validation.CreateOrder](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusCreated, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.Get(c.Request().Context(), validation.Get[validation.IDParam](c).ID)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	q := validation.Get[validation.OrderFilter](c)

	filter := domain.OrderFilter{Page: pageWindow(q.Page, q.Limit)}
	if q.Status != "" {
		status := domain.OrderStatus(q.Status)
		filter.Status = &status
	}

	orders, total, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, newList(orders, total, q.Page, q.Limit))
}

// UpdateStatus handles PATCH /admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	in := validation.Get[validation.UpdateOrderStatus](c)

	order, err := h.orders.UpdateStatus(c.Request().Context(), id, domain.OrderStatus(in.Status))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, order)
}
