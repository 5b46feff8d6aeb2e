package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/service"
)

// tenantTx is a transaction scoped to one tenant. It is only created by
// DB.InTenant, after the row level security context has been set.
type tenantTx struct {
	tx       pgx.Tx
	tenantID uuid.UUID
}

var _ service.Tx = (*tenantTx)(nil)

// LockCatalog takes a transaction-level advisory lock keyed on the tenant.
func (t *tenantTx) LockCatalog(ctx context.Context) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('catalog:' || $1::text))`, t.tenantID)
	return mapError(err, "catalog.lock")
}

// LockMembers takes a transaction-level advisory lock on the tenant's memberships.
func (t *tenantTx) LockMembers(ctx context.Context) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('members:' || $1::text))`, t.tenantID)
	return mapError(err, "membership.lock")
}

// LockCart takes a transaction-level advisory lock on one cart. A row lock
// would not cover a cart that does not exist yet.
func (t *tenantTx) LockCart(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('cart:' || $1::text))`, id)
	return mapError(err, "cart.lock")
}

// nextCounter increments and returns the tenant's named counter.
func (t *tenantTx) nextCounter(ctx context.Context, name string) (int64, error) {
	var n int64
	err := t.tx.QueryRow(ctx, `
        INSERT INTO tenant_counters (tenant_id, name, value)
        VALUES ($1, $2, 1)
        ON CONFLICT (tenant_id, name) DO UPDATE SET value = tenant_counters.value + 1
        RETURNING value`, t.tenantID, name).Scan(&n)
	if err != nil {
		return 0, mapError(err, "counter.next")
	}
	return n, nil
}
