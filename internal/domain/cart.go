package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxCartItemQuantity caps the quantity of a single cart line.
const MaxCartItemQuantity = 100

// Cart belongs to one tenant and either a customer or an anonymous session.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
	SessionID  string     `json:"sessionId,omitempty"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	VariantID string    `json:"variantId,omitempty"`
	Quantity  int       `json:"quantity"`
}

// Item returns the line for productID, if present.
func (c *Cart) Item(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
