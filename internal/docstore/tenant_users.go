package docstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// TenantUsersCollection holds the customer identities of a tenant.
const TenantUsersCollection = "tenant_users"

var ErrAlreadyLinked = &domain.Error{
	Code:    domain.ECONFLICT,
	Message: "Customer is already linked to another user",
}

// TenantUsers stores customers per tenant. A guest is keyed by its email so
// repeated checkouts reuse one identity.
type TenantUsers struct {
	store *Store
}

func NewTenantUsers(s *Store) *TenantUsers {
	return &TenantUsers{store: s}
}

// GuestID derives the id of the guest with email inside a tenant.
func GuestID(tenantID uuid.UUID, email string) uuid.UUID {
	return uuid.NewSHA1(tenantID, []byte(normalizeEmail(email)))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *TenantUsers) collection(tenantID uuid.UUID) *Collection[domain.TenantUser] {
	return CollectionOf[domain.TenantUser](u.store.Tenant(tenantID), TenantUsersCollection)
}

// FindOrCreateGuest returns the customer with email, creating a guest if none exists.
func (u *TenantUsers) FindOrCreateGuest(ctx context.Context, tenantID uuid.UUID, email, name, phone string) (*domain.TenantUser, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.Invalid("docstore.tenant_users.guest", "Email is required")
	}

	if existing, err := u.GetByEmail(ctx, tenantID, email); err == nil {
		return existing, nil
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	now := u.store.now().UTC()
	guest := &domain.TenantUser{
		ID:        GuestID(tenantID, email),
		TenantID:  tenantID,
		Email:     email,
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		Guest:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	coll := u.collection(tenantID)
	created, err := coll.Create(ctx, guest.ID.String(), guest)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with another checkout for the same email.
		return coll.Get(ctx, guest.ID.String())
	}
	return guest, nil
}

func (u *TenantUsers) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.TenantUser, error) {
	return u.collection(tenantID).Get(ctx, id.String())
}

// GetByEmail matches email case-insensitively.
func (u *TenantUsers) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.TenantUser, error) {
	email = normalizeEmail(email)
	found, err := u.collection(tenantID).Find(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.NotFound("docstore.tenant_users.by_email", "customer", email)
	}
	return &found[0], nil
}

func (u *TenantUsers) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.TenantUser, error) {
	return u.collection(tenantID).List(ctx, limit, offset)
}

func (u *TenantUsers) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return u.collection(tenantID).Count(ctx)
}

// Link promotes a customer to a registered user. Linking to the same user
// again is a no-op; a customer linked to one user cannot be relinked to another.
func (u *TenantUsers) Link(ctx context.Context, tenantID, id, userID uuid.UUID) (*domain.TenantUser, error) {
	return u.collection(tenantID).Update(ctx, id.String(), func(tu *domain.TenantUser) error {
		if tu.UserID != nil {
			if *tu.UserID == userID {
				return nil
			}
			return ErrAlreadyLinked
		}
		tu.UserID = &userID
		tu.Guest = false
		tu.UpdatedAt = u.store.now().UTC()
		return nil
	})
}
