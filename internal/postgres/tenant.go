package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/service"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

// Directory is the platform-level registry of tenants and users. It reads
// tables that are not tenant scoped; its only writes to tenant tables
// happen inside tenant transactions.
type Directory struct {
	db *DB
}

var (
	_ service.Directory = (*Directory)(nil)
	_ tenant.Resolver   = (*Directory)(nil)
)

func NewDirectory(db *DB) *Directory {
	return &Directory{db: db}
}

const tenantColumns = `id, slug, name, domain, plan, status, settings, owner_id, created_at, updated_at`

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var plan, status string
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Domain, &plan, &status, &t.Settings, &t.OwnerID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Plan = domain.Plan(plan)
	t.Status = domain.TenantStatus(status)
	if t.Settings == nil {
		t.Settings = map[string]any{}
	}
	return &t, nil
}

// GetTenantBySlug matches the slug case-insensitively.
func (d *Directory) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	t, err := scanTenant(d.db.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE lower(slug) = lower($1)`, slug))
	if err != nil {
		return nil, notFound(err, "tenant.get_by_slug", "tenant", slug)
	}
	return t, nil
}

func (d *Directory) GetTenantByDomain(ctx context.Context, host string) (*domain.Tenant, error) {
	t, err := scanTenant(d.db.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE lower(domain) = lower($1)`, host))
	if err != nil {
		return nil, notFound(err, "tenant.get_by_domain", "tenant", host)
	}
	return t, nil
}

func (d *Directory) GetTenantByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, err := scanTenant(d.db.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "tenant.get", "tenant", id.String())
	}
	return t, nil
}

func (d *Directory) BySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return d.GetTenantBySlug(ctx, slug)
}

func (d *Directory) ByDomain(ctx context.Context, host string) (*domain.Tenant, error) {
	return d.GetTenantByDomain(ctx, host)
}

func (d *Directory) ByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return d.GetTenantByID(ctx, id)
}

// CreateTenant inserts the tenant, then switches the transaction into the
// new tenant's context to add the owner membership.
func (d *Directory) CreateTenant(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error {
	tx, err := d.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err, "tenant.create")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	settings := t.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	_, err = tx.Exec(ctx, `
        INSERT INTO tenants (id, slug, name, domain, plan, status, settings, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Slug, t.Name, t.Domain, string(t.Plan), string(t.Status), settings, t.OwnerID,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return mapError(err, "tenant.create")
	}

	if err := setTenant(ctx, tx, t.ID); err != nil {
		return err
	}
	if err := insertMembership(ctx, tx, t.ID, owner); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "tenant.create")
	}
	return nil
}

func (d *Directory) UpdateTenant(ctx context.Context, t *domain.Tenant) error {
	settings := t.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	tag, err := d.db.pool.Exec(ctx, `
        UPDATE tenants SET name = $2, domain = $3, plan = $4, status = $5, settings = $6, updated_at = $7
        WHERE id = $1`,
		t.ID, t.Name, t.Domain, string(t.Plan), string(t.Status), settings, t.UpdatedAt)
	if err != nil {
		return mapError(err, "tenant.update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tenant.update", "tenant", t.ID.String())
	}
	return nil
}

// purgeTables lists tenant tables in dependency order.
var purgeTables = []string{
	"order_items",
	"orders",
	"product_categories",
	"products",
	"carts",
	"tenant_counters",
	"memberships",
}

// PurgeTenant hard-deletes every row of the tenant and then the tenant.
func (d *Directory) PurgeTenant(ctx context.Context, id uuid.UUID) error {
	tx, err := d.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err, "tenant.purge")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := setTenant(ctx, tx, id); err != nil {
		return err
	}
	for _, table := range purgeTables {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1`, id); err != nil {
			return mapError(err, "tenant.purge."+table)
		}
	}
	// Categories reference each other; clear the links before deleting.
	if _, err := tx.Exec(ctx, `UPDATE categories SET parent_id = NULL WHERE tenant_id = $1`, id); err != nil {
		return mapError(err, "tenant.purge.categories")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE tenant_id = $1`, id); err != nil {
		return mapError(err, "tenant.purge.categories")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "tenant.purge")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("tenant.purge", "tenant", id.String())
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "tenant.purge")
	}
	return nil
}
