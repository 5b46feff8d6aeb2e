package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// CartService manages storefront carts. Cart ids are chosen by the client
// and a cart is created on its first item.
type CartService struct {
	db  Database
	rec Recorder
}

func NewCartService(db Database, rec Recorder) *CartService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &CartService{db: db, rec: rec}
}

func (s *CartService) Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c *domain.Cart
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		c, err = tx.GetCart(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, ErrCartNotFound)
	}
	return c, nil
}

// AddItem adds quantity to the product's line. The resulting line quantity
// must stay within the per-item maximum and the product's stock.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, in validation.CartItem) (*domain.Cart, error) {
	if res := rules.ValidateCartQuantity(in.Quantity); !res.Valid {
		s.rec.RuleViolation("cart", res.Code)
		return nil, res.Err()
	}
	return s.mutate(ctx, cartID, in.ProductID, true, func(c *domain.Cart) (int, error) {
		for i := range c.Items {
			if c.Items[i].ProductID == in.ProductID {
				c.Items[i].Quantity += in.Quantity
				return c.Items[i].Quantity, nil
			}
		}
		c.Items = append(c.Items, domain.CartItem{
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Quantity:  in.Quantity,
		})
		return in.Quantity, nil
	})
}

// UpdateItem sets the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, productID, false, func(c *domain.Cart) (int, error) {
		for i := range c.Items {
			if c.Items[i].ProductID == productID {
				c.Items[i].Quantity = quantity
				return quantity, nil
			}
		}
		return 0, ErrCartItemNotFound
	})
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.Cart, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c *domain.Cart
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCart(ctx, cartID); err != nil {
			return err
		}
		var err error
		c, err = tx.GetCart(ctx, cartID)
		if err != nil {
			return notFoundAs(err, ErrCartNotFound)
		}

		items := c.Items[:0]
		removed := false
		for _, item := range c.Items {
			if item.ProductID == productID {
				removed = true
				continue
			}
			items = append(items, item)
		}
		if !removed {
			return ErrCartItemNotFound
		}
		c.Items = items
		c.UpdatedAt = time.Now().UTC()
		return tx.SaveCart(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// mutate loads the cart, applies change and checks the resulting line
// quantity against the product before saving.
func (s *CartService) mutate(ctx context.Context, cartID, productID uuid.UUID, create bool, change func(c *domain.Cart) (int, error)) (*domain.Cart, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c *domain.Cart
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCart(ctx, cartID); err != nil {
			return err
		}
		var err error
		c, err = tx.GetCart(ctx, cartID)
		switch {
		case domain.IsCode(err, domain.ENOTFOUND) && create:
			now := time.Now().UTC()
			c = &domain.Cart{ID: cartID, TenantID: t.ID, CreatedAt: now}
		case err != nil:
			return notFoundAs(err, ErrCartNotFound)
		}

		quantity, err := change(c)
		if err != nil {
			return err
		}
		if err := enforce(ctx, tx, s.rec, rules.CartItemAdd{ProductID: productID, Quantity: quantity}); err != nil {
			return err
		}

		c.UpdatedAt = time.Now().UTC()
		return tx.SaveCart(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
