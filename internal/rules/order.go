package rules

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// TotalTolerance is the largest accepted gap between declared and computed totals.
var TotalTolerance = decimal.RequireFromString("0.01")

// CheckOrderCreate validates every line against the catalog, then the total.
func (e *Engine) CheckOrderCreate(ctx context.Context, req OrderCreate) (Result, error) {
	if len(req.Items) == 0 {
		return Fail(CodeEmptyOrder, "Order must contain at least one item", nil), nil
	}

	requested := make(map[uuid.UUID]int, len(req.Items))
	products := make(map[uuid.UUID]*domain.Product, len(req.Items))

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return Fail(CodeInvalidQuantity, "Quantity must be greater than zero", map[string]any{
				"index":     i,
				"productId": item.ProductID.String(),
				"quantity":  item.Quantity,
			}), nil
		}

		product, ok := products[item.ProductID]
		if !ok {
			p, err := e.reader.GetProduct(ctx, item.ProductID)
			ok, err := found(err)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return Fail(CodeProductNotFound, "Product not found", map[string]any{
					"index":     i,
					"productId": item.ProductID.String(),
				}), nil
			}
			products[item.ProductID] = p
			product = p
		}

		if !product.IsActive() {
			return Fail(CodeProductInactive, "Product is not available", map[string]any{
				"productId": product.ID.String(),
				"status":    string(product.Status),
			}), nil
		}
		if !item.Price.Equal(product.Price) {
			return Fail(CodePriceMismatch, "Item price does not match current product price", map[string]any{
				"productId": product.ID.String(),
				"provided":  item.Price.InexactFloat64(),
				"current":   product.Price.InexactFloat64(),
			}), nil
		}

		requested[item.ProductID] += item.Quantity
		if res := checkStock(product, requested[item.ProductID]); !res.Valid {
			return res, nil
		}
	}

	return ValidateOrderTotal(req.Items, req.Tax, req.Shipping, req.Discount, req.Total), nil
}

// ValidateOrderTotal compares the declared total with
// sum(price*quantity) + tax + shipping - discount.
func ValidateOrderTotal(items []OrderLine, tax, shipping, discount, total decimal.Decimal) Result {
	calculated := CalculateTotal(items, tax, shipping, discount)
	if total.Sub(calculated).Abs().GreaterThan(TotalTolerance) {
		return Fail(CodeInvalidTotal, "Order total does not match calculated total", map[string]any{
			"provided":   total.InexactFloat64(),
			"calculated": calculated.InexactFloat64(),
		})
	}
	return Pass()
}

// Subtotal sums price*quantity over items.
func Subtotal(items []OrderLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

func CalculateTotal(items []OrderLine, tax, shipping, discount decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Add(tax).Add(shipping).Sub(discount)
}

// CheckOrderStatusChange loads the order and checks the transition.
func (e *Engine) CheckOrderStatusChange(ctx context.Context, req OrderStatusChange) (Result, error) {
	order, err := e.reader.GetOrder(ctx, req.OrderID)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Fail(CodeOrderNotFound, "Order not found", map[string]any{
			"orderId": req.OrderID.String(),
		}), nil
	}
	return ValidateOrderStatusTransition(order.Status, req.To), nil
}

// ValidateOrderStatusTransition accepts only edges of the fulfillment graph.
func ValidateOrderStatusTransition(from, to domain.OrderStatus) Result {
	if from.CanTransitionTo(to) {
		return Pass()
	}

	next := from.NextStates()
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	return Fail(CodeInvalidStatusTransition, "Cannot transition order from "+string(from)+" to "+string(to), map[string]any{
		"from":    string(from),
		"to":      string(to),
		"allowed": allowed,
	})
}

// checkStock requires enough stock when inventory is tracked without backorder.
func checkStock(product *domain.Product, quantity int) Result {
	if product.Inventory.Enforced() && product.Inventory.Quantity < quantity {
		return Fail(CodeInsufficientInventory, "Insufficient inventory", map[string]any{
			"productId": product.ID.String(),
			"requested": quantity,
			"available": product.Inventory.Quantity,
		})
	}
	return Pass()
}
