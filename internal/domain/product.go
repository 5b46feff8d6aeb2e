package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus is unconstrained: any status may follow any other.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Inventory tracks stock for a product.
type Inventory struct {
	Track             bool `json:"track"`
	Quantity          int  `json:"quantity"`
	AllowBackorder    bool `json:"allowBackorder"`
	LowStockThreshold int  `json:"lowStockThreshold"`
}

// Enforced reports whether stock must cover requested quantities.
func (i Inventory) Enforced() bool {
	return i.Track && !i.AllowBackorder
}

// Product belongs to exactly one tenant.
type Product struct {
	ID             uuid.UUID        `json:"id"`
	TenantID       uuid.UUID        `json:"tenantId"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	SKU            *string          `json:"sku,omitempty"`
	Status         ProductStatus    `json:"status"`
	Inventory      Inventory        `json:"inventory"`
	CategoryIDs    []uuid.UUID      `json:"categoryIds"`
	Images         []string         `json:"images"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// IsActive returns true if the product can be sold.
func (p *Product) IsActive() bool {
	return p != nil && p.Status == ProductStatusActive
}

// IsLowStock reports whether tracked stock has reached the low-stock threshold.
func (p *Product) IsLowStock() bool {
	return p.Inventory.Track && p.Inventory.Quantity <= p.Inventory.LowStockThreshold
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Status     *ProductStatus
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Page       Page
}

// Page is an offset pagination window.
type Page struct {
	Limit  int
	Offset int
}
