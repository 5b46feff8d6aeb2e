package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	ctx, tn := tenantCtx(domain.PlanFree)
	db := newMemDB()
	svc := NewCategoryService(db, nil)

	root, err := svc.Create(ctx, validation.CreateCategory{Name: "Drinks", Slug: "drinks"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, validation.CreateCategory{Name: "Coffee", Slug: "coffee", ParentID: &root.ID})
	require.NoError(t, err)

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := svc.Create(ctx, validation.CreateCategory{Name: "Again", Slug: "drinks"})
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeDuplicateSlug, v.Code)
	})

	t.Run("missing parent", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Create(ctx, validation.CreateCategory{Name: "Tea", Slug: "tea", ParentID: &missing})
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeParentNotFound, v.Code)
	})

	t.Run("re-parent into own subtree", func(t *testing.T) {
		_, err := svc.Update(ctx, root.ID, validation.UpdateCategory{ParentID: validation.Some(child.ID)})
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeCircularReference, v.Code)
		assert.Nil(t, db.state(tn.ID).categories[root.ID].ParentID)
	})

	t.Run("rename keeps own slug", func(t *testing.T) {
		name := "Hot drinks"
		slug := "drinks"
		updated, err := svc.Update(ctx, root.ID, validation.UpdateCategory{Name: &name, Slug: &slug})
		require.NoError(t, err)
		assert.Equal(t, "Hot drinks", updated.Name)
	})

	t.Run("delete with children blocked", func(t *testing.T) {
		err := svc.Delete(ctx, root.ID)
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeCategoryHasChildren, v.Code)
	})

	t.Run("delete with products blocked", func(t *testing.T) {
		p := seedProduct(db, tn.ID, "1.00", 1)
		p.CategoryIDs = []uuid.UUID{child.ID}
		db.state(tn.ID).products[p.ID] = p

		err := svc.Delete(ctx, child.ID)
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeCategoryHasProducts, v.Code)

		delete(db.state(tn.ID).products, p.ID)
	})

	t.Run("leaf deleted", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, child.ID))
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, root.ID, list[0].ID)
	})
}

func TestCategoryService_Update_ParentID(t *testing.T) {
	ctx, tn := tenantCtx(domain.PlanFree)
	db := newMemDB()
	svc := NewCategoryService(db, nil)

	root, err := svc.Create(ctx, validation.CreateCategory{Name: "Drinks", Slug: "drinks"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, validation.CreateCategory{Name: "Coffee", Slug: "coffee", ParentID: &root.ID})
	require.NoError(t, err)

	tests := []struct {
		name       string
		parentID   validation.Nullable[uuid.UUID]
		wantParent *uuid.UUID
	}{
		{"absent keeps the parent", validation.Nullable[uuid.UUID]{}, &root.ID},
		{"null moves to the top level", validation.Null[uuid.UUID](), nil},
		{"value sets the parent", validation.Some(root.ID), &root.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.Update(ctx, child.ID, validation.UpdateCategory{ParentID: tt.parentID})
			require.NoError(t, err)
			assert.Equal(t, tt.wantParent, updated.ParentID)
			assert.Equal(t, tt.wantParent, db.state(tn.ID).categories[child.ID].ParentID)
		})
	}
}
