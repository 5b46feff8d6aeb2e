package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/shopspring/decimal"
)

// OrderService places and fulfills orders of the tenant in context.
type OrderService struct {
	db        Database
	customers Customers
	rec       Recorder
}

func NewOrderService(db Database, customers Customers, rec Recorder) *OrderService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &OrderService{db: db, customers: customers, rec: rec}
}

// Create places an order for a guest customer.
//
// The ordered products are locked before the stock and total rules run, and
// tracked inventory is decremented in the same transaction, so two checkouts
// can never both take the last unit.
func (s *OrderService) Create(ctx context.Context, in validation.CreateOrder) (*domain.Order, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindOrCreateGuest(ctx, t.ID, in.Customer.Email, in.Customer.Name, in.Customer.Phone)
	if err != nil {
		return nil, err
	}

	lines := make([]rules.OrderLine, len(in.Items))
	ids := make([]uuid.UUID, 0, len(in.Items))
	seen := make(map[uuid.UUID]bool, len(in.Items))
	for i, item := range in.Items {
		lines[i] = rules.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		TenantID:      t.ID,
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		Status:        domain.OrderStatusPending,
		Tax:           in.Tax,
		Shipping:      in.Shipping,
		Discount:      in.Discount,
		Total:         in.Total,
		Currency:      in.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockProducts(ctx, ids); err != nil {
			return err
		}

		req := rules.OrderCreate{
			Items:    lines,
			Tax:      in.Tax,
			Shipping: in.Shipping,
			Discount: in.Discount,
			Total:    in.Total,
		}
		if err := enforce(ctx, tx, s.rec, req); err != nil {
			return err
		}

		decrements := make(map[uuid.UUID]int, len(ids))
		order.Items = make([]domain.LineItem, 0, len(lines))
		for _, line := range lines {
			p, err := tx.GetProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, domain.LineItem{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.Price,
				Quantity:  line.Quantity,
				LineTotal: p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
			if p.Inventory.Track {
				decrements[p.ID] += line.Quantity
			}
		}
		order.Subtotal = rules.Subtotal(lines)

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, id := range ids {
			if qty := decrements[id]; qty > 0 {
				if err := tx.DecrementInventory(ctx, id, qty); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var o *domain.Order
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		o, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	var (
		orders []domain.Order
		total  int
	)
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		orders, total, err = tx.ListOrders(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus moves the order along the fulfillment graph.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Valid() {
		return nil, ErrOrderStatusInvalid
	}
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var o *domain.Order
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockOrder(ctx, id); err != nil {
			return err
		}
		if err := enforce(ctx, tx, s.rec, rules.OrderStatusChange{OrderID: id, To: to}); err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, id, to); err != nil {
			return err
		}
		var err error
		o, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
