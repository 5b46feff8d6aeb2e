package rules

import (
	"context"

	"github.com/google/uuid"
)

func (e *Engine) CheckCategoryCreate(ctx context.Context, req CategoryCreate) (Result, error) {
	if res, err := e.checkCategorySlug(ctx, req.Slug, uuid.Nil); err != nil || !res.Valid {
		return res, err
	}
	if req.ParentID == nil {
		return Pass(), nil
	}
	return e.checkParent(ctx, uuid.Nil, *req.ParentID)
}

func (e *Engine) CheckCategoryUpdate(ctx context.Context, req CategoryUpdate) (Result, error) {
	_, err := e.reader.GetCategory(ctx, req.CategoryID)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Fail(CodeCategoryNotFound, "Category not found", map[string]any{
			"categoryId": req.CategoryID.String(),
		}), nil
	}

	if req.Slug != nil {
		if res, err := e.checkCategorySlug(ctx, *req.Slug, req.CategoryID); err != nil || !res.Valid {
			return res, err
		}
	}
	if req.ParentID == nil {
		return Pass(), nil
	}
	return e.checkParent(ctx, req.CategoryID, *req.ParentID)
}

// CheckCategoryDelete blocks deletion while children or products reference the category.
func (e *Engine) CheckCategoryDelete(ctx context.Context, req CategoryDelete) (Result, error) {
	_, err := e.reader.GetCategory(ctx, req.CategoryID)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Fail(CodeCategoryNotFound, "Category not found", map[string]any{
			"categoryId": req.CategoryID.String(),
		}), nil
	}

	children, err := e.reader.CountChildCategories(ctx, req.CategoryID)
	if err != nil {
		return Result{}, err
	}
	if children > 0 {
		return Fail(CodeCategoryHasChildren, "Cannot delete category with subcategories", map[string]any{
			"categoryId": req.CategoryID.String(),
			"children":   children,
		}), nil
	}

	products, err := e.reader.CountCategoryProducts(ctx, req.CategoryID)
	if err != nil {
		return Result{}, err
	}
	if products > 0 {
		return Fail(CodeCategoryHasProducts, "Cannot delete category with assigned products", map[string]any{
			"categoryId": req.CategoryID.String(),
			"products":   products,
		}), nil
	}
	return Pass(), nil
}

func (e *Engine) checkCategorySlug(ctx context.Context, slug string, self uuid.UUID) (Result, error) {
	holder, err := e.reader.GetCategoryBySlug(ctx, slug)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if ok && holder.ID != self {
		return Fail(CodeDuplicateSlug, "Category slug already exists", map[string]any{
			"slug": slug,
		}), nil
	}
	return Pass(), nil
}

// checkParent walks the chain upward from parentID. Reaching self, or any
// node twice, means the assignment would close a cycle.
func (e *Engine) checkParent(ctx context.Context, self, parentID uuid.UUID) (Result, error) {
	visited := make(map[uuid.UUID]bool)
	current := parentID

	for {
		if (self != uuid.Nil && current == self) || visited[current] {
			return Fail(CodeCircularReference, "Category parent would create a circular reference", map[string]any{
				"categoryId": self.String(),
				"parentId":   parentID.String(),
			}), nil
		}
		visited[current] = true

		node, err := e.reader.GetCategory(ctx, current)
		ok, err := found(err)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			if current == parentID {
				return Fail(CodeParentNotFound, "Parent category not found", map[string]any{
					"parentId": parentID.String(),
				}), nil
			}
			// Dangling ancestor: the chain ends here.
			return Pass(), nil
		}
		if node.ParentID == nil {
			return Pass(), nil
		}
		current = *node.ParentID
	}
}
