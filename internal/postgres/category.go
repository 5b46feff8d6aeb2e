package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

const categoryColumns = `id, tenant_id, name, slug, description, parent_id, sort_order, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.SortOrder,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *tenantTx) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, err := scanCategory(t.tx.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE tenant_id = $1 AND id = $2`, t.tenantID, id))
	if err != nil {
		return nil, notFound(err, "category.get", "category", id.String())
	}
	return c, nil
}

func (t *tenantTx) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := scanCategory(t.tx.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE tenant_id = $1 AND slug = $2`, t.tenantID, slug))
	if err != nil {
		return nil, notFound(err, "category.get_by_slug", "category", slug)
	}
	return c, nil
}

func (t *tenantTx) CountChildCategories(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE tenant_id = $1 AND parent_id = $2`,
		t.tenantID, id).Scan(&n)
	if err != nil {
		return 0, mapError(err, "category.count_children")
	}
	return n, nil
}

func (t *tenantTx) CountCategoryProducts(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM product_categories WHERE tenant_id = $1 AND category_id = $2`,
		t.tenantID, id).Scan(&n)
	if err != nil {
		return 0, mapError(err, "category.count_products")
	}
	return n, nil
}

func (t *tenantTx) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+categoryColumns+` FROM categories
        WHERE tenant_id = $1
        ORDER BY sort_order, name`, t.tenantID)
	if err != nil {
		return nil, mapError(err, "category.list")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapError(err, "category.list")
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "category.list")
	}
	return categories, nil
}

func (t *tenantTx) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO categories (id, tenant_id, name, slug, description, parent_id, sort_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, t.tenantID, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "category.create")
}

func (t *tenantTx) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tag, err := t.tx.Exec(ctx, `
        UPDATE categories SET name = $3, slug = $4, description = $5, parent_id = $6, sort_order = $7, updated_at = $8
        WHERE tenant_id = $1 AND id = $2`,
		t.tenantID, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.UpdatedAt)
	if err != nil {
		return mapError(err, "category.update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category.update", "category", c.ID.String())
	}
	return nil
}

func (t *tenantTx) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, t.tenantID, id)
	if err != nil {
		return mapError(err, "category.delete")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category.delete", "category", id.String())
	}
	return nil
}
