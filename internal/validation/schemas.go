package validation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Schemas come in three variants per entity: the full stored shape, a Create
// shape without server-assigned fields, and an Update shape whose fields are
// all optional. The `default` tag is applied when a key is absent.

// =============================================================================
// User
// =============================================================================

type User struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	Email         string    `json:"email" validate:"required,email,max=254"`
	Name          string    `json:"name" validate:"required,max=200"`
	PlatformAdmin bool      `json:"platformAdmin"`
	CreatedAt     time.Time `json:"createdAt" validate:"required"`
	UpdatedAt     time.Time `json:"updatedAt" validate:"required"`
}

type CreateUser struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=200"`
}

type UpdateUser struct {
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// =============================================================================
// Tenant
// =============================================================================

type Tenant struct {
	ID        uuid.UUID      `json:"id" validate:"required"`
	Slug      string         `json:"slug" validate:"required,slug"`
	Name      string         `json:"name" validate:"required,max=200"`
	Domain    *string        `json:"domain" validate:"omitempty,fqdn,max=253"`
	Plan      string         `json:"plan" default:"free" validate:"oneof=free basic premium enterprise"`
	Status    string         `json:"status" default:"pending" validate:"oneof=active inactive suspended pending"`
	Settings  map[string]any `json:"settings"`
	OwnerID   uuid.UUID      `json:"ownerId" validate:"required"`
	CreatedAt time.Time      `json:"createdAt" validate:"required"`
	UpdatedAt time.Time      `json:"updatedAt" validate:"required"`
}

type CreateTenant struct {
	Slug     string         `json:"slug" validate:"required,slug"`
	Name     string         `json:"name" validate:"required,max=200"`
	Domain   *string        `json:"domain" validate:"omitempty,fqdn,max=253"`
	Plan     string         `json:"plan" default:"free" validate:"oneof=free basic premium enterprise"`
	Settings map[string]any `json:"settings"`
	OwnerID  uuid.UUID      `json:"ownerId" validate:"required"`
}

// UpdateTenant has no slug: slugs are immutable once assigned. A null
// domain detaches the custom domain.
type UpdateTenant struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Domain   Nullable[string] `json:"domain" validate:"omitempty,fqdn,max=253"`
	Status   *string          `json:"status" validate:"omitempty,oneof=active inactive suspended pending"`
	Settings map[string]any   `json:"settings"`
}

type ChangePlan struct {
	Plan string `json:"plan" validate:"required,oneof=free basic premium enterprise"`
}

// =============================================================================
// Product
// =============================================================================

type Inventory struct {
	Track             bool `json:"track" default:"true"`
	Quantity          int  `json:"quantity" validate:"lte=1000000"`
	AllowBackorder    bool `json:"allowBackorder"`
	LowStockThreshold int  `json:"lowStockThreshold" default:"5" validate:"lte=1000000"`
}

type UpdateInventory struct {
	Track             *bool `json:"track"`
	Quantity          *int  `json:"quantity" validate:"omitempty,lte=1000000"`
	AllowBackorder    *bool `json:"allowBackorder"`
	LowStockThreshold *int  `json:"lowStockThreshold" validate:"omitempty,lte=1000000"`
}

type Product struct {
	ID             uuid.UUID        `json:"id" validate:"required"`
	TenantID       uuid.UUID        `json:"tenantId" validate:"required"`
	Name           string           `json:"name" validate:"required,max=200"`
	Slug           string           `json:"slug" validate:"required,slug"`
	Description    string           `json:"description" validate:"max=5000"`
	Price          decimal.Decimal  `json:"price" validate:"gt=0,lte=999999.99,decimals=2"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice" validate:"omitempty,gt=0,lte=999999.99,decimals=2"`
	SKU            *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Status         string           `json:"status" default:"draft" validate:"oneof=draft active inactive archived"`
	Inventory      Inventory        `json:"inventory"`
	CategoryIDs    []uuid.UUID      `json:"categoryIds" validate:"max=20,dive,required"`
	Images         []string         `json:"images" validate:"max=20,dive,url"`
	CreatedAt      time.Time        `json:"createdAt" validate:"required"`
	UpdatedAt      time.Time        `json:"updatedAt" validate:"required"`
}

type CreateProduct struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Slug           string           `json:"slug" validate:"required,slug"`
	Description    string           `json:"description" validate:"max=5000"`
	Price          decimal.Decimal  `json:"price" validate:"gt=0,lte=999999.99,decimals=2"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice" validate:"omitempty,gt=0,lte=999999.99,decimals=2"`
	SKU            *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Status         string           `json:"status" default:"draft" validate:"oneof=draft active inactive archived"`
	Inventory      Inventory        `json:"inventory"`
	CategoryIDs    []uuid.UUID      `json:"categoryIds" validate:"max=20,dive,required"`
	Images         []string         `json:"images" validate:"max=20,dive,url"`
}

type UpdateProduct struct {
	Name           *string                   `json:"name" validate:"omitempty,min=1,max=200"`
	Slug           *string                   `json:"slug" validate:"omitempty,slug"`
	Description    *string                   `json:"description" validate:"omitempty,max=5000"`
	Price          *decimal.Decimal          `json:"price" validate:"omitempty,gt=0,lte=999999.99,decimals=2"`
	CompareAtPrice Nullable[decimal.Decimal] `json:"compareAtPrice" validate:"omitempty,gt=0,lte=999999.99,decimals=2"`
	SKU            Nullable[string]          `json:"sku" validate:"omitempty,min=1,max=100"`
	Status         *string                   `json:"status" validate:"omitempty,oneof=draft active inactive archived"`
	Inventory      *UpdateInventory          `json:"inventory"`
	CategoryIDs    []uuid.UUID               `json:"categoryIds" validate:"omitempty,max=20,dive,required"`
	Images         []string                  `json:"images" validate:"omitempty,max=20,dive,url"`
}

// =============================================================================
// Category
// =============================================================================

type Category struct {
	ID          uuid.UUID  `json:"id" validate:"required"`
	TenantID    uuid.UUID  `json:"tenantId" validate:"required"`
	Name        string     `json:"name" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,slug"`
	Description string     `json:"description" validate:"max=2000"`
	ParentID    *uuid.UUID `json:"parentId"`
	SortOrder   int        `json:"sortOrder" validate:"gte=0"`
	CreatedAt   time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt   time.Time  `json:"updatedAt" validate:"required"`
}

type CreateCategory struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,slug"`
	Description string     `json:"description" validate:"max=2000"`
	ParentID    *uuid.UUID `json:"parentId"`
	SortOrder   int        `json:"sortOrder" validate:"gte=0"`
}

type UpdateCategory struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Slug        *string             `json:"slug" validate:"omitempty,slug"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	ParentID    Nullable[uuid.UUID] `json:"parentId"`
	SortOrder   *int                `json:"sortOrder" validate:"omitempty,gte=0"`
}

// =============================================================================
// Order
// =============================================================================

type OrderCustomer struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

type LinkCustomer struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

type OrderItem struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"lte=10000"`
	Price     decimal.Decimal `json:"price" validate:"gte=0,lte=999999.99,decimals=2"`
}

type Order struct {
	ID         uuid.UUID       `json:"id" validate:"required"`
	TenantID   uuid.UUID       `json:"tenantId" validate:"required"`
	CustomerID uuid.UUID       `json:"customerId" validate:"required"`
	Status     string          `json:"status" default:"pending" validate:"oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Items      []OrderItem     `json:"items" validate:"required,min=1,max=100,dive"`
	Tax        decimal.Decimal `json:"tax" validate:"gte=0,decimals=2"`
	Shipping   decimal.Decimal `json:"shipping" validate:"gte=0,decimals=2"`
	Discount   decimal.Decimal `json:"discount" validate:"gte=0,decimals=2"`
	Total      decimal.Decimal `json:"total" validate:"gte=0,decimals=2"`
	Currency   string          `json:"currency" default:"KWD" validate:"len=3,uppercase"`
	CreatedAt  time.Time       `json:"createdAt" validate:"required"`
	UpdatedAt  time.Time       `json:"updatedAt" validate:"required"`
}

type CreateOrder struct {
	Customer OrderCustomer   `json:"customer"`
	Items    []OrderItem     `json:"items" validate:"required,min=1,max=100,dive"`
	Tax      decimal.Decimal `json:"tax" validate:"gte=0,decimals=2"`
	Shipping decimal.Decimal `json:"shipping" validate:"gte=0,decimals=2"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0,decimals=2"`
	Total    decimal.Decimal `json:"total" validate:"gte=0,decimals=2"`
	Currency string          `json:"currency" default:"KWD" validate:"len=3,uppercase"`
}

type UpdateOrderStatus struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Note   string `json:"note" validate:"max=500"`
}

// =============================================================================
// Cart
// =============================================================================

// Cart item quantities are bounded by business rules so that the
// INVALID_QUANTITY / QUANTITY_EXCEEDED codes reach the client.
type CartItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	VariantID string    `json:"variantId" validate:"max=100"`
	Quantity  int       `json:"quantity"`
}

type UpdateCartItem struct {
	Quantity int `json:"quantity"`
}

type Cart struct {
	ID         uuid.UUID  `json:"id" validate:"required"`
	TenantID   uuid.UUID  `json:"tenantId" validate:"required"`
	CustomerID *uuid.UUID `json:"customerId"`
	SessionID  string     `json:"sessionId" validate:"max=128"`
	Items      []CartItem `json:"items" validate:"max=100,dive"`
	CreatedAt  time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt  time.Time  `json:"updatedAt" validate:"required"`
}

// =============================================================================
// Store settings
// =============================================================================

type Theme struct {
	PrimaryColor   string `json:"primaryColor" default:"#111827" validate:"hexcolor"`
	SecondaryColor string `json:"secondaryColor" default:"#ffffff" validate:"hexcolor"`
}

type Hero struct {
	Title    string `json:"title" validate:"max=200"`
	Subtitle string `json:"subtitle" validate:"max=500"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

// StoreSettings is validated loosely: unrecognized content belongs in extra.
type StoreSettings struct {
	Currency     string            `json:"currency" default:"KWD" validate:"len=3,uppercase"`
	Locale       string            `json:"locale" default:"en" validate:"oneof=en ar"`
	Theme        Theme             `json:"theme"`
	SocialLinks  map[string]string `json:"socialLinks" validate:"omitempty,dive,keys,oneof=instagram facebook x tiktok snapchat whatsapp,endkeys,url"`
	Hero         Hero              `json:"hero"`
	ContactEmail string            `json:"contactEmail" validate:"omitempty,email"`
	Extra        map[string]any    `json:"extra"`
}

// =============================================================================
// Filters and pagination
// =============================================================================

type Pagination struct {
	Page  int `json:"page" default:"1" validate:"gte=1"`
	Limit int `json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type ProductFilter struct {
	Status   string           `json:"status" validate:"omitempty,oneof=draft active inactive archived"`
	Category *uuid.UUID       `json:"category"`
	Q        string           `json:"q" validate:"max=200"`
	MinPrice *decimal.Decimal `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *decimal.Decimal `json:"maxPrice" validate:"omitempty,gte=0"`
	Page     int              `json:"page" default:"1" validate:"gte=1"`
	Limit    int              `json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type OrderFilter struct {
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Page   int    `json:"page" default:"1" validate:"gte=1"`
	Limit  int    `json:"limit" default:"20" validate:"gte=1,lte=100"`
}

// =============================================================================
// Params and headers
// =============================================================================

type IDParam struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type SlugParam struct {
	Slug string `json:"slug" validate:"required,slug"`
}

type CartItemParams struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type TenantHeaders struct {
	Slug string `json:"x-tenant-slug" validate:"omitempty,slug"`
}

type MemberParams struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// =============================================================================
// Memberships and customers
// =============================================================================

type InviteMember struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role" default:"STAFF" validate:"oneof=ADMIN STAFF VIEWER"`
}

type UpdateMember struct {
	Role   *string `json:"role" validate:"omitempty,oneof=OWNER ADMIN STAFF VIEWER"`
	Active *bool   `json:"active"`
}

type CreateGuest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}
