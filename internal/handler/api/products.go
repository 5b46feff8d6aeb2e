package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products. Storefront routes pass storefront=true so
// only active products are listed whatever status is asked for.
func (h *ProductHandler) List(storefront bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := validation.Get[validation.ProductFilter](c)

		filter := domain.ProductFilter{
			CategoryID: q.Category,
			Search:     q.Q,
			MinPrice:   q.MinPrice,
			MaxPrice:   q.MaxPrice,
			Page:       pageWindow(q.Page, q.Limit),
		}
		if q.Status != "" {
			status := domain.ProductStatus(q.Status)
			filter.Status = &status
		}
		if storefront {
			active := domain.ProductStatusActive
			filter.Status = &active
		}

		products, total, err := h.products.List(c.Request().Context(), filter)
		if err != nil {
			return err
		}
		return handler.OK(c, http.StatusOK, newList(products, total, q.Page, q.Limit))
	}
}

// Get handles GET /products/:id. Storefront routes hide inactive products.
func (h *ProductHandler) Get(storefront bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := validation.Get[validation.IDParam](c).ID

		p, err := h.products.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if storefront && !p.IsActive() {
			return domain.NotFound("api.product.get", "product", id.String())
		}
		return handler.OK(c, http.StatusOK, p)
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	p, err := h.products.Create(c.Request().Context(), validation.Get[validation.CreateProduct](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	p, err := h.products.Update(c.Request().Context(), id, validation.Get[validation.UpdateProduct](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
