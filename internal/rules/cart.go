package rules

import (
	"context"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// ValidateCartQuantity bounds a cart line to [1, MaxCartItemQuantity].
func ValidateCartQuantity(quantity int) Result {
	if quantity < 1 {
		return Fail(CodeInvalidQuantity, "Quantity must be at least 1", map[string]any{
			"quantity": quantity,
			"min":      1,
		})
	}
	if quantity > domain.MaxCartItemQuantity {
		return Fail(CodeQuantityExceeded, "Quantity exceeds the per-item maximum", map[string]any{
			"quantity": quantity,
			"max":      domain.MaxCartItemQuantity,
		})
	}
	return Pass()
}

// CheckCartItem validates the quantity, then the product and its stock.
func (e *Engine) CheckCartItem(ctx context.Context, req CartItemAdd) (Result, error) {
	if res := ValidateCartQuantity(req.Quantity); !res.Valid {
		return res, nil
	}

	product, err := e.reader.GetProduct(ctx, req.ProductID)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Fail(CodeProductNotFound, "Product not found", map[string]any{
			"productId": req.ProductID.String(),
		}), nil
	}
	if !product.IsActive() {
		return Fail(CodeProductInactive, "Product is not available", map[string]any{
			"productId": product.ID.String(),
			"status":    string(product.Status),
		}), nil
	}
	return checkStock(product, req.Quantity), nil
}
