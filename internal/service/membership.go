package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// MembershipService manages who may administer the tenant in context.
// Members are deactivated, never deleted.
type MembershipService struct {
	db  Database
	dir Directory
}

func NewMembershipService(db Database, dir Directory) *MembershipService {
	return &MembershipService{db: db, dir: dir}
}

// GetMembership loads one user's membership in a tenant. It backs the
// per-request role checks, which run before any tenant is trusted.
func (s *MembershipService) GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	var m *domain.Membership
	err := s.db.InTenant(ctx, tenantID, func(tx Tx) error {
		var err error
		m, err = tx.GetMembership(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MembershipService) List(ctx context.Context) ([]domain.Membership, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var members []domain.Membership
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		members, err = tx.ListMemberships(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Invite adds an existing user to the tenant, or reactivates a former member.
func (s *MembershipService) Invite(ctx context.Context, in validation.InviteMember) (*domain.Membership, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.dir.GetUser(ctx, in.UserID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	var m *domain.Membership
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockMembers(ctx); err != nil {
			return err
		}
		now := time.Now().UTC()
		existing, err := tx.GetMembership(ctx, in.UserID)
		switch {
		case err == nil && existing.Active:
			return ErrAlreadyMember
		case err == nil:
			m = existing
			m.Role = domain.Role(in.Role)
			m.Active = true
			m.UpdatedAt = now
		case domain.IsCode(err, domain.ENOTFOUND):
			m = &domain.Membership{
				ID:        uuid.New(),
				TenantID:  t.ID,
				UserID:    in.UserID,
				Role:      domain.Role(in.Role),
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
		default:
			return err
		}
		return tx.SaveMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes a member's role or active flag. The last active owner can
// be neither demoted nor deactivated.
func (s *MembershipService) Update(ctx context.Context, userID uuid.UUID, in validation.UpdateMember) (*domain.Membership, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var m *domain.Membership
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		// Concurrent demotions must see each other before counting owners.
		if err := tx.LockMembers(ctx); err != nil {
			return err
		}
		var err error
		m, err = tx.GetMembership(ctx, userID)
		if err != nil {
			return notFoundAs(err, ErrMemberNotFound)
		}

		wasOwner := m.Active && m.Role == domain.RoleOwner
		if in.Role != nil {
			m.Role = domain.Role(*in.Role)
		}
		if in.Active != nil {
			m.Active = *in.Active
		}

		if wasOwner && !(m.Active && m.Role == domain.RoleOwner) {
			members, err := tx.ListMemberships(ctx)
			if err != nil {
				return err
			}
			if activeOwners(members) <= 1 {
				return ErrLastOwner
			}
		}

		m.UpdatedAt = time.Now().UTC()
		return tx.SaveMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Deactivate revokes a member's access.
func (s *MembershipService) Deactivate(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	inactive := false
	return s.Update(ctx, userID, validation.UpdateMember{Active: &inactive})
}

func activeOwners(members []domain.Membership) int {
	n := 0
	for _, m := range members {
		if m.Active && m.Role == domain.RoleOwner {
			n++
		}
	}
	return n
}
