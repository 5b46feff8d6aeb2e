// Package postgres stores tenants and their catalog in PostgreSQL.
//
// Tenant rows are protected by row level security keyed on the
// app.current_tenant setting. The only way to reach them is DB.InTenant,
// which sets that variable at the start of its transaction; every query
// also filters on tenant_id explicitly.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saod-ux/saas-project-sub000/internal/service"
)

// DB wraps a pgx pool.
type DB struct {
	pool *pgxpool.Pool
}

var _ service.Database = (*DB)(nil)

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &DB{pool: pool}, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) (*DB, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// InTenant runs fn in a transaction whose row level security context is
// tenantID. The transaction commits if fn returns nil.
func (db *DB) InTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx service.Tx) error) error {
	if tenantID == uuid.Nil {
		return errors.New("postgres: tenant transaction without tenant")
	}

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err, "tenant.begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := setTenant(ctx, tx, tenantID); err != nil {
		return err
	}

	if err := fn(&tenantTx{tx: tx, tenantID: tenantID}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "tenant.commit")
	}
	return nil
}

// setTenant scopes the rest of the transaction to tenantID.
func setTenant(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `SELECT set_config('app.current_tenant', $1, true)`, tenantID.String()); err != nil {
		return mapError(err, "tenant.set_context")
	}
	return nil
}
