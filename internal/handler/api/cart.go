package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.carts.Get(c.Request().Context(), validation.Get[validation.IDParam](c).ID)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, cart)
}

// AddItem handles POST /cart/:id/items. The cart is created on first use.
func (h *CartHandler) AddItem(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	cart, err := h.carts.AddItem(c.Request().Context(), id, validation.Get[validation.CartItem](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	p := validation.Get[validation.CartItemParams](c)
	in := validation.Get[validation.UpdateCartItem](c)

	cart, err := h.carts.UpdateItem(c.Request().Context(), p.ID, p.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	p := validation.Get[validation.CartItemParams](c)
	cart, err := h.carts.RemoveItem(c.Request().Context(), p.ID, p.ProductID)
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, cart)
}
