package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRoutes(svc OrderService) *echo.Echo {
	h := NewOrderHandler(svc)
	e := newTestEcho()
	e.POST("/orders", h.Checkout, validation.Body[validation.CreateOrder]())
	e.GET("/admin/orders", h.List, validation.Query[validation.OrderFilter]())
	e.PATCH("/admin/orders/:id/status", h.UpdateStatus,
		validation.Params[validation.IDParam](),
		validation.Body[validation.UpdateOrderStatus]())
	return e
}

func TestOrderHandler_Checkout(t *testing.T) {
	productID := uuid.New()
	svc := &mockOrderService{createFunc: func(ctx context.Context, in validation.CreateOrder) (*domain.Order, error) {
		require.Len(t, in.Items, 1)
		assert.Equal(t, "KWD", in.Currency)
		return &domain.Order{ID: uuid.New(), Number: "ORD-000001", Total: in.Total}, nil
	}}

	body := `{"customer":{"email":"a@example.test","name":"A"},` +
		`"items":[{"productId":"` + productID.String() + `","quantity":2,"price":"4.50"}],"total":"9.00"}`
	rec := doJSON(orderRoutes(svc), http.MethodPost, "/orders", body)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestOrderHandler_CheckoutRejectsEmptyOrder(t *testing.T) {
	rec := doJSON(orderRoutes(&mockOrderService{}), http.MethodPost, "/orders",
		`{"customer":{"email":"a@example.test","name":"A"},"items":[],"total":"0"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()
	svc := &mockOrderService{updateStatusFunc: func(ctx context.Context, got uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
		assert.Equal(t, id, got)
		return nil, rules.ValidateOrderStatusTransition(domain.OrderStatusDelivered, to).Err()
	}}

	rec := doJSON(orderRoutes(svc), http.MethodPatch, "/admin/orders/"+id.String()+"/status", `{"status":"pending"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rules.CodeInvalidStatusTransition, decodeEnvelope(t, rec).Code)
}

func TestOrderHandler_ListFilter(t *testing.T) {
	var got domain.OrderFilter
	svc := &mockOrderService{listFunc: func(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int, error) {
		got = f
		return nil, 0, nil
	}}

	rec := doJSON(orderRoutes(svc), http.MethodGet, "/admin/orders?status=shipped&page=2&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.OrderStatusShipped, *got.Status)
	assert.Equal(t, domain.Page{Limit: 5, Offset: 5}, got.Page)
}

func httptestRequest() *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", nil)
}

func TestRuleBuilders(t *testing.T) {
	e := echo.New()
	productID := uuid.New()

	t.Run("order create copies lines and totals", func(t *testing.T) {
		c := e.NewContext(httptestRequest(), nil)
		validation.Set(c, validation.CreateOrder{
			Items: []validation.OrderItem{{ProductID: productID, Quantity: 2, Price: decimal.RequireFromString("4.5")}},
			Total: decimal.RequireFromString("9"),
		})

		req, err := OrderCreateRule(c)
		require.NoError(t, err)
		oc := req.(rules.OrderCreate)
		require.Len(t, oc.Items, 1)
		assert.Equal(t, productID, oc.Items[0].ProductID)
		assert.True(t, oc.Total.Equal(decimal.NewFromInt(9)))
	})

	t.Run("product create needs a tenant", func(t *testing.T) {
		c := e.NewContext(httptestRequest(), nil)
		validation.Set(c, validation.CreateProduct{Name: "Mug"})

		_, err := ProductCreateRule(c)
		assert.ErrorIs(t, err, domain.ErrTenantRequired)
	})

	t.Run("product create uses the tenant plan", func(t *testing.T) {
		r := httptestRequest()
		r = r.WithContext(tenant.NewContext(r.Context(), &domain.Tenant{ID: uuid.New(), Plan: domain.PlanBasic}))
		c := e.NewContext(r, nil)
		validation.Set(c, validation.CreateProduct{Name: "Mug", Price: decimal.NewFromInt(3)})

		req, err := ProductCreateRule(c)
		require.NoError(t, err)
		assert.Equal(t, domain.PlanBasic, req.(rules.ProductCreate).Plan)
	})
}
