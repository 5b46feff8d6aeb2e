package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

type CategoryService struct {
	db  Database
	rec Recorder
}

func NewCategoryService(db Database, rec Recorder) *CategoryService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &CategoryService{db: db, rec: rec}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		var err error
		categories, err = tx.ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, in validation.CreateCategory) (*domain.Category, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:          uuid.New(),
		TenantID:    t.ID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCatalog(ctx); err != nil {
			return err
		}
		if err := enforce(ctx, tx, s.rec, rules.CategoryCreate{Slug: c.Slug, ParentID: c.ParentID}); err != nil {
			return err
		}
		return tx.CreateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update re-checks slug uniqueness and the parent chain before writing, so a
// concurrent re-parent cannot close a cycle.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in validation.UpdateCategory) (*domain.Category, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c *domain.Category
	err = s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCatalog(ctx); err != nil {
			return err
		}

		var err error
		c, err = tx.GetCategory(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrCategoryNotFound)
		}

		req := rules.CategoryUpdate{CategoryID: id, Slug: in.Slug, ParentID: in.ParentID.Ptr()}
		if err := enforce(ctx, tx, s.rec, req); err != nil {
			return err
		}

		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Slug != nil {
			c.Slug = *in.Slug
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		c.ParentID = in.ParentID.Merge(c.ParentID)
		if in.SortOrder != nil {
			c.SortOrder = *in.SortOrder
		}
		c.UpdatedAt = time.Now().UTC()
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	return s.db.InTenant(ctx, t.ID, func(tx Tx) error {
		if err := tx.LockCatalog(ctx); err != nil {
			return err
		}
		if err := enforce(ctx, tx, s.rec, rules.CategoryDelete{CategoryID: id}); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, id)
	})
}
