// Package rules enforces domain constraints that need other entities or
// tenant state: plan limits, uniqueness, hierarchy cycles, inventory and
// order status transitions.
//
// Rules only read. Each returns a Result describing whether the operation
// may proceed; the error return is reserved for failures of the underlying
// store and is never used to report a broken rule.
package rules

import (
	"errors"
	"fmt"
)

// Violation codes returned to clients.
const (
	CodeProductLimitExceeded    = "PRODUCT_LIMIT_EXCEEDED"
	CodeDuplicateSKU            = "DUPLICATE_SKU"
	CodeInvalidPrice            = "INVALID_PRICE"
	CodeInvalidComparePrice     = "INVALID_COMPARE_PRICE"
	CodeInvalidInventory        = "INVALID_INVENTORY"
	CodeCategoryNotFound        = "CATEGORY_NOT_FOUND"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeProductInactive         = "PRODUCT_INACTIVE"
	CodePriceMismatch           = "PRICE_MISMATCH"
	CodeInsufficientInventory   = "INSUFFICIENT_INVENTORY"
	CodeInvalidQuantity         = "INVALID_QUANTITY"
	CodeQuantityExceeded        = "QUANTITY_EXCEEDED"
	CodeInvalidTotal            = "INVALID_TOTAL"
	CodeEmptyOrder              = "EMPTY_ORDER"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeDuplicateSlug           = "DUPLICATE_SLUG"
	CodeParentNotFound          = "PARENT_NOT_FOUND"
	CodeCircularReference       = "CIRCULAR_REFERENCE"
	CodeCategoryHasChildren     = "CATEGORY_HAS_CHILDREN"
	CodeCategoryHasProducts     = "CATEGORY_HAS_PRODUCTS"
	CodeReservedSlug            = "RESERVED_SLUG"
	CodeInvalidPlan             = "INVALID_PLAN"
	CodePlanDowngrade           = "PLAN_DOWNGRADE_NOT_ALLOWED"
)

// Result is the outcome of one rule check.
type Result struct {
	Valid   bool           `json:"valid"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pass is the passing result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail builds a failing result.
func Fail(code, message string, details map[string]any) Result {
	return Result{Valid: false, Error: message, Code: code, Details: details}
}

// Err converts a failing result into a *Violation. Passing results give nil.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Violation{Result: r}
}

// Violation is a broken business rule carried as an error.
type Violation struct {
	Result
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Result.Error)
}

// AsViolation returns the violation wrapped in err, if any.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
