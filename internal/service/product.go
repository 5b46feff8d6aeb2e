package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// ProductService manages the catalog of the tenant in context.
type ProductService struct {
	db  Database
	rec Recorder
}

func NewProductService(db Database, rec Recorder) *ProductService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ProductService{db: db, rec: rec}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	var (
		products []domain.Product
		total    int
	)
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		products, total, err = tx.ListProducts(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var p *domain.Product
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	return p, nil
}

// Create checks the plan limit and catalog rules and stores the product in
// one transaction. Concurrent creates for the same tenant are serialized so
// the plan limit cannot be overrun.
func (s *ProductService) Create(ctx context.Context, in validation.CreateProduct) (*domain.Product, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:             uuid.New(),
		TenantID:       t.ID,
		Name:           in.Name,
		Slug:           in.Slug,
		Description:    in.Description,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		SKU:            in.SKU,
		Status:         domain.ProductStatus(in.Status),
		Inventory:      domain.Inventory(in.Inventory),
		CategoryIDs:    in.CategoryIDs,
		Images:         in.Images,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCatalog(ctx); err != nil {
			return err
		}
		req := rules.ProductCreate{
			Plan:           t.Plan,
			SKU:            p.SKU,
			Price:          p.Price,
			CompareAtPrice: p.CompareAtPrice,
			Inventory:      p.Inventory,
			CategoryIDs:    p.CategoryIDs,
		}
		if err := enforce(ctx, tx, s.rec, req); err != nil {
			return err
		}
		return tx.CreateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges the provided fields over the stored product.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in validation.UpdateProduct) (*domain.Product, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var p *domain.Product
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}

		inventory := mergeInventory(p.Inventory, in.Inventory)
		req := rules.ProductUpdate{
			ProductID:           id,
			SKU:                 in.SKU.Ptr(),
			Price:               in.Price,
			CompareAtPrice:      in.CompareAtPrice.Ptr(),
			ClearCompareAtPrice: in.CompareAtPrice.Cleared(),
			CategoryIDs:         in.CategoryIDs,
		}
		if in.Inventory != nil {
			req.Inventory = &inventory
		}
		if err := enforce(ctx, tx, s.rec, req); err != nil {
			return err
		}

		applyProductUpdate(p, in)
		p.Inventory = inventory
		p.UpdatedAt = time.Now().UTC()
		return tx.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product. Orders keep their frozen line items.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		return tx.DeleteProduct(ctx, id)
	})
	return notFoundAs(err, ErrProductNotFound)
}

func applyProductUpdate(p *domain.Product, in validation.UpdateProduct) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	p.CompareAtPrice = in.CompareAtPrice.Merge(p.CompareAtPrice)
	p.SKU = in.SKU.Merge(p.SKU)
	if in.Status != nil {
		p.Status = domain.ProductStatus(*in.Status)
	}
	if in.CategoryIDs != nil {
		p.CategoryIDs = in.CategoryIDs
	}
	if in.Images != nil {
		p.Images = in.Images
	}
}

func mergeInventory(inv domain.Inventory, in *validation.UpdateInventory) domain.Inventory {
	if in == nil {
		return inv
	}
	if in.Track != nil {
		inv.Track = *in.Track
	}
	if in.Quantity != nil {
		inv.Quantity = *in.Quantity
	}
	if in.AllowBackorder != nil {
		inv.AllowBackorder = *in.AllowBackorder
	}
	if in.LowStockThreshold != nil {
		inv.LowStockThreshold = *in.LowStockThreshold
	}
	return inv
}
