package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

const orderColumns = `id, tenant_id, number, customer_id, customer_email, status, subtotal, tax, shipping,
        discount, total, currency, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.TenantID, &o.Number, &o.CustomerID, &o.CustomerEmail, &status, &o.Subtotal,
		&o.Tax, &o.Shipping, &o.Discount, &o.Total, &o.Currency, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func (t *tenantTx) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, err := scanOrder(t.tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`, t.tenantID, id))
	if err != nil {
		return nil, notFound(err, "order.get", "order", id.String())
	}
	if err := t.loadItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// loadItems fills the line items of orders with one query.
func (t *tenantTx) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		o.Items = []domain.LineItem{}
		byID[o.ID] = o
		ids[i] = o.ID
	}

	rows, err := t.tx.Query(ctx, `
        SELECT order_id, product_id, name, unit_price, quantity, line_total
        FROM order_items
        WHERE tenant_id = $1 AND order_id = ANY($2)
        ORDER BY order_id, position`, t.tenantID, ids)
	if err != nil {
		return mapError(err, "order.items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    domain.LineItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return mapError(err, "order.items")
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return mapError(rows.Err(), "order.items")
}

// CreateOrder numbers the order from the tenant's order counter and stores
// it with its items.
func (t *tenantTx) CreateOrder(ctx context.Context, o *domain.Order) error {
	n, err := t.nextCounter(ctx, "order")
	if err != nil {
		return err
	}
	o.Number = fmt.Sprintf("ORD-%06d", n)

	_, err = t.tx.Exec(ctx, `
        INSERT INTO orders (
            id, tenant_id, number, customer_id, customer_email, status, subtotal, tax, shipping,
            discount, total, currency, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		o.ID, t.tenantID, o.Number, o.CustomerID, o.CustomerEmail, string(o.Status), o.Subtotal, o.Tax,
		o.Shipping, o.Discount, o.Total, o.Currency, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "order.create")
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`
            INSERT INTO order_items (tenant_id, order_id, position, product_id, name, unit_price, quantity, line_total)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.tenantID, o.ID, i, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "order.create_items")
	}
	return nil
}

func (t *tenantTx) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
	w := &where{}
	w.add("tenant_id = ?", t.tenantID)
	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.CustomerID != nil {
		w.add("customer_id = ?", *f.CustomerID)
	}

	var total int
	if err := t.tx.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM orders %s`, w), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "order.list")
	}

	query := fmt.Sprintf(`SELECT %s FROM orders %s
        ORDER BY created_at DESC, id
        LIMIT %d OFFSET %d`, orderColumns, w, limitOrDefault(f.Page.Limit), max(f.Page.Offset, 0))
	rows, err := t.tx.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "order.list")
	}

	var page []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, mapError(err, "order.list")
		}
		page = append(page, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "order.list")
	}

	if err := t.loadItems(ctx, page); err != nil {
		return nil, 0, err
	}

	orders := make([]domain.Order, len(page))
	for i, o := range page {
		orders[i] = *o
	}
	return orders, total, nil
}

func (t *tenantTx) LockOrder(ctx context.Context, id uuid.UUID) error {
	rows, err := t.tx.Query(ctx, `SELECT id FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, t.tenantID, id)
	if err != nil {
		return mapError(err, "order.lock")
	}
	rows.Close()
	return mapError(rows.Err(), "order.lock")
}

func (t *tenantTx) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		t.tenantID, id, string(status))
	if err != nil {
		return mapError(err, "order.update_status")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order.update_status", "order", id.String())
	}
	return nil
}
