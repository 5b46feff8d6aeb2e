package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// planOrder lists plans from lowest to highest tier.
var planOrder = []Plan{PlanFree, PlanBasic, PlanPremium, PlanEnterprise}

var productLimits = map[Plan]int{
	PlanFree:       10,
	PlanBasic:      100,
	PlanPremium:    1000,
	PlanEnterprise: 10000,
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := productLimits[p]
	return ok
}

// ProductLimit returns the maximum number of products a tenant on this plan may hold.
// Unknown plans get the free tier limit.
func (p Plan) ProductLimit() int {
	if limit, ok := productLimits[p]; ok {
		return limit
	}
	return productLimits[PlanFree]
}

// Rank returns the position of the plan in the upgrade path, or -1 if unknown.
func (p Plan) Rank() int {
	for i, candidate := range planOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// TenantStatus is the lifecycle status of a tenant.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusPending   TenantStatus = "pending"
)

// Tenant is one merchant's isolated namespace.
type Tenant struct {
	ID        uuid.UUID      `json:"id"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	Domain    *string        `json:"domain,omitempty"`
	Plan      Plan           `json:"plan"`
	Status    TenantStatus   `json:"status"`
	Settings  map[string]any `json:"settings"`
	OwnerID   uuid.UUID      `json:"ownerId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// IsActive returns true if the tenant can serve traffic.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == TenantStatusActive
}
