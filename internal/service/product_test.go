package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductInput(name string) validation.CreateProduct {
	return validation.CreateProduct{
		Name:      name,
		Slug:      "p-" + uuid.NewString()[:8],
		Price:     decimal.RequireFromString("10.00"),
		Status:    "active",
		Inventory: validation.Inventory{Track: true, Quantity: 5, LowStockThreshold: 1},
	}
}

func TestProductService_RequiresTenant(t *testing.T) {
	svc := NewProductService(newMemDB(), nil)

	_, err := svc.Create(context.Background(), newProductInput("Mug"))
	assert.ErrorIs(t, err, tenant.ErrNoTenant)

	_, _, err = svc.List(context.Background(), domain.ProductFilter{})
	assert.ErrorIs(t, err, tenant.ErrNoTenant)
}

func TestProductService_Create(t *testing.T) {
	ctx, tn := tenantCtx(domain.PlanFree)
	db := newMemDB()
	svc := NewProductService(db, nil)

	p, err := svc.Create(ctx, newProductInput("Mug"))
	require.NoError(t, err)
	assert.Equal(t, tn.ID, p.TenantID)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.Contains(t, db.state(tn.ID).products, p.ID)
}

func TestProductService_Create_PlanLimit(t *testing.T) {
	ctx, tn := tenantCtx(domain.PlanFree)
	db := newMemDB()
	rec := &countingRecorder{}
	svc := NewProductService(db, rec)

	for i := 0; i < domain.PlanFree.ProductLimit(); i++ {
		_, err := svc.Create(ctx, newProductInput("Item"))
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, newProductInput("One too many"))
	v, ok := rules.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeProductLimitExceeded, v.Code)
	assert.Equal(t, 10, v.Details["limit"])
	assert.Len(t, db.state(tn.ID).products, 10)
	assert.Equal(t, []string{"product:PRODUCT_LIMIT_EXCEEDED"}, rec.violations)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	ctx, _ := tenantCtx(domain.PlanBasic)
	svc := NewProductService(newMemDB(), nil)

	sku := "MUG-1"
	in := newProductInput("Mug")
	in.SKU = &sku
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	in2 := newProductInput("Other mug")
	in2.SKU = &sku
	_, err = svc.Create(ctx, in2)
	v, ok := rules.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeDuplicateSKU, v.Code)
}

func TestProductService_TenantsAreIsolated(t *testing.T) {
	db := newMemDB()
	svc := NewProductService(db, nil)

	ctxA, _ := tenantCtx(domain.PlanFree)
	ctxB, _ := tenantCtx(domain.PlanFree)

	p, err := svc.Create(ctxA, newProductInput("Mug"))
	require.NoError(t, err)

	_, err = svc.Get(ctxB, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	list, total, err := svc.List(ctxB, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	err = svc.Delete(ctxB, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	got, err := svc.Get(ctxA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
}

func TestProductService_Update(t *testing.T) {
	ctx, _ := tenantCtx(domain.PlanBasic)
	svc := NewProductService(newMemDB(), nil)

	p, err := svc.Create(ctx, newProductInput("Mug"))
	require.NoError(t, err)

	t.Run("merges provided fields", func(t *testing.T) {
		name := "Big mug"
		qty := 40
		updated, err := svc.Update(ctx, p.ID, validation.UpdateProduct{
			Name:      &name,
			Inventory: &validation.UpdateInventory{Quantity: &qty},
		})
		require.NoError(t, err)
		assert.Equal(t, "Big mug", updated.Name)
		assert.Equal(t, 40, updated.Inventory.Quantity)
		assert.True(t, updated.Inventory.Track)
		assert.True(t, updated.Price.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("compare price checked against stored price", func(t *testing.T) {
		compare := decimal.RequireFromString("9.00")
		_, err := svc.Update(ctx, p.ID, validation.UpdateProduct{CompareAtPrice: validation.Some(compare)})
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeInvalidComparePrice, v.Code)
	})

	t.Run("null clears optional fields", func(t *testing.T) {
		compare := decimal.RequireFromString("15.00")
		_, err := svc.Update(ctx, p.ID, validation.UpdateProduct{
			CompareAtPrice: validation.Some(compare),
			SKU:            validation.Some("MUG-9"),
		})
		require.NoError(t, err)

		// A price above the old compare-at price is fine once it is cleared.
		price := decimal.RequireFromString("20.00")
		updated, err := svc.Update(ctx, p.ID, validation.UpdateProduct{
			Price:          &price,
			CompareAtPrice: validation.Null[decimal.Decimal](),
			SKU:            validation.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.CompareAtPrice)
		assert.Nil(t, updated.SKU)
		assert.True(t, updated.Price.Equal(price))

		stored, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.CompareAtPrice)
		assert.Nil(t, stored.SKU)
	})

	t.Run("negative tracked stock rejected", func(t *testing.T) {
		qty := -1
		_, err := svc.Update(ctx, p.ID, validation.UpdateProduct{
			Inventory: &validation.UpdateInventory{Quantity: &qty},
		})
		v, ok := rules.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, rules.CodeInvalidInventory, v.Code)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), validation.UpdateProduct{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestMergeInventory(t *testing.T) {
	base := domain.Inventory{Track: true, Quantity: 3, LowStockThreshold: 2}

	assert.Equal(t, base, mergeInventory(base, nil))

	backorder := true
	got := mergeInventory(base, &validation.UpdateInventory{AllowBackorder: &backorder})
	assert.Equal(t, domain.Inventory{Track: true, Quantity: 3, AllowBackorder: true, LowStockThreshold: 2}, got)
}
