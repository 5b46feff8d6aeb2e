package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type CategoryHandler struct {
	categories CategoryService
}

func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	cat, err := h.categories.Create(c.Request().Context(), validation.Get[validation.CreateCategory](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	cat, err := h.categories.Update(c.Request().Context(), id, validation.Get[validation.UpdateCategory](c))
	if err != nil {
		return err
	}
	return handler.OK(c, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id := validation.Get[validation.IDParam](c).ID
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
