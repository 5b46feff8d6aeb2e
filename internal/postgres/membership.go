package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

const membershipColumns = `id, tenant_id, user_id, role, active, created_at, updated_at`

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var m domain.Membership
	var role string
	if err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &role, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func (t *tenantTx) GetMembership(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	m, err := scanMembership(t.tx.QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE tenant_id = $1 AND user_id = $2`, t.tenantID, userID))
	if err != nil {
		return nil, notFound(err, "membership.get", "membership", userID.String())
	}
	return m, nil
}

func (t *tenantTx) ListMemberships(ctx context.Context) ([]domain.Membership, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE tenant_id = $1 ORDER BY created_at`, t.tenantID)
	if err != nil {
		return nil, mapError(err, "membership.list")
	}
	defer rows.Close()

	members := []domain.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, mapError(err, "membership.list")
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "membership.list")
	}
	return members, nil
}

// SaveMembership inserts the membership or updates role and active flag.
func (t *tenantTx) SaveMembership(ctx context.Context, m *domain.Membership) error {
	return insertMembership(ctx, t.tx, t.tenantID, m)
}

func insertMembership(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, m *domain.Membership) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO memberships (id, tenant_id, user_id, role, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (tenant_id, user_id) DO UPDATE SET
            role = EXCLUDED.role,
            active = EXCLUDED.active,
            updated_at = EXCLUDED.updated_at`,
		m.ID, tenantID, m.UserID, string(m.Role), m.Active, m.CreatedAt, m.UpdatedAt)
	return mapError(err, "membership.save")
}
