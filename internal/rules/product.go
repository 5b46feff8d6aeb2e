package rules

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// CheckProductCreate enforces the plan's product limit, SKU uniqueness,
// pricing, inventory and category ownership.
func (e *Engine) CheckProductCreate(ctx context.Context, req ProductCreate) (Result, error) {
	count, err := e.reader.CountProducts(ctx)
	if err != nil {
		return Result{}, err
	}
	if limit := req.Plan.ProductLimit(); count >= limit {
		return Fail(CodeProductLimitExceeded, "Product limit reached for current plan", map[string]any{
			"current": count,
			"limit":   limit,
			"plan":    string(req.Plan),
		}), nil
	}

	if res, err := e.checkSKU(ctx, req.SKU, uuid.Nil); err != nil || !res.Valid {
		return res, err
	}
	if res := ValidatePricing(req.Price, req.CompareAtPrice); !res.Valid {
		return res, nil
	}
	if res := ValidateInventory(req.Inventory); !res.Valid {
		return res, nil
	}
	return e.checkCategories(ctx, req.CategoryIDs)
}

// CheckProductUpdate checks the changed fields merged over the stored product.
func (e *Engine) CheckProductUpdate(ctx context.Context, req ProductUpdate) (Result, error) {
	existing, err := e.reader.GetProduct(ctx, req.ProductID)
	if ok, err := found(err); err != nil {
		return Result{}, err
	} else if !ok {
		return Fail(CodeProductNotFound, "Product not found", map[string]any{
			"productId": req.ProductID.String(),
		}), nil
	}

	sku := existing.SKU
	if req.SKU != nil {
		sku = req.SKU
	}
	price := existing.Price
	if req.Price != nil {
		price = *req.Price
	}
	compareAt := existing.CompareAtPrice
	if req.CompareAtPrice != nil {
		compareAt = req.CompareAtPrice
	} else if req.ClearCompareAtPrice {
		compareAt = nil
	}
	inventory := existing.Inventory
	if req.Inventory != nil {
		inventory = *req.Inventory
	}

	if req.SKU != nil {
		if res, err := e.checkSKU(ctx, sku, existing.ID); err != nil || !res.Valid {
			return res, err
		}
	}
	if res := ValidatePricing(price, compareAt); !res.Valid {
		return res, nil
	}
	if res := ValidateInventory(inventory); !res.Valid {
		return res, nil
	}
	return e.checkCategories(ctx, req.CategoryIDs)
}

// ValidatePricing requires a positive price and, when present, a compare-at
// price strictly above it.
func ValidatePricing(price decimal.Decimal, compareAt *decimal.Decimal) Result {
	if !price.IsPositive() {
		return Fail(CodeInvalidPrice, "Price must be greater than zero", map[string]any{
			"price": price.InexactFloat64(),
		})
	}
	if compareAt != nil && compareAt.LessThanOrEqual(price) {
		return Fail(CodeInvalidComparePrice, "Compare-at price must be greater than price", map[string]any{
			"price":          price.InexactFloat64(),
			"compareAtPrice": compareAt.InexactFloat64(),
		})
	}
	return Pass()
}

// ValidateInventory requires non-negative stock figures when tracking is on.
func ValidateInventory(inv domain.Inventory) Result {
	if !inv.Track {
		return Pass()
	}
	if inv.Quantity < 0 || inv.LowStockThreshold < 0 {
		return Fail(CodeInvalidInventory, "Inventory quantity and low stock threshold must not be negative", map[string]any{
			"quantity":          inv.Quantity,
			"lowStockThreshold": inv.LowStockThreshold,
		})
	}
	return Pass()
}

// checkSKU rejects a SKU held by any product other than self.
func (e *Engine) checkSKU(ctx context.Context, sku *string, self uuid.UUID) (Result, error) {
	if sku == nil || *sku == "" {
		return Pass(), nil
	}
	holder, err := e.reader.GetProductBySKU(ctx, *sku)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if ok && holder.ID != self {
		return Fail(CodeDuplicateSKU, "SKU already exists", map[string]any{
			"sku":               *sku,
			"existingProductId": holder.ID.String(),
		}), nil
	}
	return Pass(), nil
}

func (e *Engine) checkCategories(ctx context.Context, ids []uuid.UUID) (Result, error) {
	for _, id := range ids {
		_, err := e.reader.GetCategory(ctx, id)
		ok, err := found(err)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Fail(CodeCategoryNotFound, "Category not found", map[string]any{
				"categoryId": id.String(),
			}), nil
		}
	}
	return Pass(), nil
}
