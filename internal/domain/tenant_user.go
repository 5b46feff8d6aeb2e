package domain

import (
	"time"

	"github.com/google/uuid"
)

// TenantUser is a customer identity inside one tenant's namespace.
// A guest may be linked to a global User once; the link is never removed.
type TenantUser struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenantId"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Guest     bool       `json:"guest"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsRegistered reports whether the tenant user has been linked to a global user.
func (u *TenantUser) IsRegistered() bool {
	return u.UserID != nil
}
