package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's permission level inside one tenant.
// Roles are totally ordered: OWNER > ADMIN > STAFF > VIEWER.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleViewer Role = "VIEWER"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleStaff:  2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks equal to or higher than required.
// Unknown roles never satisfy a requirement.
func (r Role) AtLeast(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}

// User is a global identity issued by the external authentication provider.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PlatformAdmin bool      `json:"platformAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Membership ties a User to a Tenant with a role.
// Removal deactivates the membership instead of deleting it.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	UserID    uuid.UUID `json:"userId"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Allows reports whether an active membership grants the required role.
func (m *Membership) Allows(required Role) bool {
	return m != nil && m.Active && m.Role.AtLeast(required)
}
