package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

func (t *tenantTx) GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	var c domain.Cart
	err := t.tx.QueryRow(ctx, `
        SELECT id, tenant_id, customer_id, session_id, items, created_at, updated_at
        FROM carts WHERE tenant_id = $1 AND id = $2`, t.tenantID, id).
		Scan(&c.ID, &c.TenantID, &c.CustomerID, &c.SessionID, &c.Items, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "cart.get", "cart", id.String())
	}
	return &c, nil
}

// SaveCart inserts the cart or replaces its items.
func (t *tenantTx) SaveCart(ctx context.Context, c *domain.Cart) error {
	items := c.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	_, err := t.tx.Exec(ctx, `
        INSERT INTO carts (id, tenant_id, customer_id, session_id, items, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (tenant_id, id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            session_id = EXCLUDED.session_id,
            items = EXCLUDED.items,
            updated_at = EXCLUDED.updated_at`,
		c.ID, t.tenantID, c.CustomerID, c.SessionID, items, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "cart.save")
}
