package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

const productColumns = `p.id, p.tenant_id, p.name, p.slug, p.description, p.price, p.compare_at_price,
        p.sku, p.status, p.track_inventory, p.quantity, p.allow_backorder, p.low_stock_threshold,
        p.images, p.created_at, p.updated_at,
        ARRAY(SELECT pc.category_id FROM product_categories pc WHERE pc.product_id = p.id ORDER BY pc.category_id)`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var status string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CompareAtPrice,
		&p.SKU, &status, &p.Inventory.Track, &p.Inventory.Quantity, &p.Inventory.AllowBackorder,
		&p.Inventory.LowStockThreshold, &p.Images, &p.CreatedAt, &p.UpdatedAt, &p.CategoryIDs)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProductStatus(status)
	return &p, nil
}

func (t *tenantTx) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`, t.tenantID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "product.count")
	}
	return n, nil
}

func (t *tenantTx) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE p.tenant_id = $1 AND p.id = $2`, productColumns)
	p, err := scanProduct(t.tx.QueryRow(ctx, query, t.tenantID, id))
	if err != nil {
		return nil, notFound(err, "product.get", "product", id.String())
	}
	return p, nil
}

func (t *tenantTx) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE p.tenant_id = $1 AND p.sku = $2`, productColumns)
	p, err := scanProduct(t.tx.QueryRow(ctx, query, t.tenantID, sku))
	if err != nil {
		return nil, notFound(err, "product.get_by_sku", "product", sku)
	}
	return p, nil
}

// productFilter builds the WHERE clause of a product listing.
func productFilter(tenantID uuid.UUID, f domain.ProductFilter) *where {
	w := &where{}
	w.add("p.tenant_id = ?", tenantID)
	if f.Status != nil {
		w.add("p.status = ?", string(*f.Status))
	}
	if f.CategoryID != nil {
		w.add("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = ?)", *f.CategoryID)
	}
	if f.Search != "" {
		w.add("(p.name ILIKE ? OR p.description ILIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.MinPrice != nil {
		w.add("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("p.price <= ?", *f.MaxPrice)
	}
	return w
}

// ListProducts returns one page of matching products, newest first, and the
// total number of matches.
func (t *tenantTx) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	w := productFilter(t.tenantID, f)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products p %s`, w)
	if err := t.tx.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "product.list")
	}

	query := fmt.Sprintf(`SELECT %s FROM products p %s
        ORDER BY p.created_at DESC, p.id
        LIMIT %d OFFSET %d`, productColumns, w, limitOrDefault(f.Page.Limit), max(f.Page.Offset, 0))

	rows, err := t.tx.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "product.list")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, mapError(err, "product.list")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "product.list")
	}
	return products, total, nil
}

// LockProducts locks the rows with SELECT ... FOR UPDATE in id order.
func (t *tenantTx) LockProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := t.tx.Query(ctx, `
        SELECT id FROM products
        WHERE tenant_id = $1 AND id = ANY($2)
        ORDER BY id
        FOR UPDATE`, t.tenantID, ids)
	if err != nil {
		return mapError(err, "product.lock")
	}
	rows.Close()
	return mapError(rows.Err(), "product.lock")
}

func (t *tenantTx) CreateProduct(ctx context.Context, p *domain.Product) error {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := t.tx.Exec(ctx, `
        INSERT INTO products (
            id, tenant_id, name, slug, description, price, compare_at_price, sku, status,
            track_inventory, quantity, allow_backorder, low_stock_threshold, images,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		p.ID, t.tenantID, p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice, p.SKU, string(p.Status),
		p.Inventory.Track, p.Inventory.Quantity, p.Inventory.AllowBackorder, p.Inventory.LowStockThreshold, images,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "product.create")
	}
	return t.setProductCategories(ctx, p.ID, p.CategoryIDs, false)
}

func (t *tenantTx) UpdateProduct(ctx context.Context, p *domain.Product) error {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tag, err := t.tx.Exec(ctx, `
        UPDATE products SET
            name = $3, slug = $4, description = $5, price = $6, compare_at_price = $7, sku = $8,
            status = $9, track_inventory = $10, quantity = $11, allow_backorder = $12,
            low_stock_threshold = $13, images = $14, updated_at = $15
        WHERE tenant_id = $1 AND id = $2`,
		t.tenantID, p.ID, p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice, p.SKU,
		string(p.Status), p.Inventory.Track, p.Inventory.Quantity, p.Inventory.AllowBackorder,
		p.Inventory.LowStockThreshold, images, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "product.update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product.update", "product", p.ID.String())
	}
	return t.setProductCategories(ctx, p.ID, p.CategoryIDs, true)
}

func (t *tenantTx) setProductCategories(ctx context.Context, productID uuid.UUID, ids []uuid.UUID, replace bool) error {
	if replace {
		if _, err := t.tx.Exec(ctx, `DELETE FROM product_categories WHERE tenant_id = $1 AND product_id = $2`,
			t.tenantID, productID); err != nil {
			return mapError(err, "product.categories")
		}
	}
	for _, id := range ids {
		if _, err := t.tx.Exec(ctx, `
            INSERT INTO product_categories (tenant_id, product_id, category_id)
            VALUES ($1, $2, $3)
            ON CONFLICT DO NOTHING`, t.tenantID, productID, id); err != nil {
			return mapError(err, "product.categories")
		}
	}
	return nil
}

func (t *tenantTx) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, t.tenantID, id)
	if err != nil {
		return mapError(err, "product.delete")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product.delete", "product", id.String())
	}
	return nil
}

// DecrementInventory lowers tracked stock. Callers hold the row lock and
// have already checked availability.
func (t *tenantTx) DecrementInventory(ctx context.Context, id uuid.UUID, quantity int) error {
	_, err := t.tx.Exec(ctx, `
        UPDATE products SET quantity = quantity - $3, updated_at = now()
        WHERE tenant_id = $1 AND id = $2 AND track_inventory`, t.tenantID, id, quantity)
	return mapError(err, "product.decrement_inventory")
}
