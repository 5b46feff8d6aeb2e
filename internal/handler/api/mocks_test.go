package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	listFunc   func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	getFunc    func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	createFunc func(ctx context.Context, in validation.CreateProduct) (*domain.Product, error)
	updateFunc func(ctx context.Context, id uuid.UUID, in validation.UpdateProduct) (*domain.Product, error)
	deleteFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return m.getFunc(ctx, id)
}

func (m *mockProductService) Create(ctx context.Context, in validation.CreateProduct) (*domain.Product, error) {
	return m.createFunc(ctx, in)
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, in validation.UpdateProduct) (*domain.Product, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

type mockCartService struct {
	getFunc        func(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	addItemFunc    func(ctx context.Context, cartID uuid.UUID, in validation.CartItem) (*domain.Cart, error)
	updateItemFunc func(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*domain.Cart, error)
	removeItemFunc func(ctx context.Context, cartID, productID uuid.UUID) (*domain.Cart, error)
}

func (m *mockCartService) Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return m.getFunc(ctx, id)
}

func (m *mockCartService) AddItem(ctx context.Context, cartID uuid.UUID, in validation.CartItem) (*domain.Cart, error) {
	return m.addItemFunc(ctx, cartID, in)
}

func (m *mockCartService) UpdateItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	return m.updateItemFunc(ctx, cartID, productID, quantity)
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.Cart, error) {
	return m.removeItemFunc(ctx, cartID, productID)
}

type mockTenantService struct {
	createFunc     func(ctx context.Context, in validation.CreateTenant) (*domain.Tenant, error)
	getFunc        func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc     func(ctx context.Context, slug string, in validation.UpdateTenant) (*domain.Tenant, error)
	changePlanFunc func(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error)
}

func (m *mockTenantService) Create(ctx context.Context, in validation.CreateTenant) (*domain.Tenant, error) {
	return m.createFunc(ctx, in)
}

func (m *mockTenantService) Get(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getFunc(ctx, slug)
}

func (m *mockTenantService) Update(ctx context.Context, slug string, in validation.UpdateTenant) (*domain.Tenant, error) {
	return m.updateFunc(ctx, slug, in)
}

func (m *mockTenantService) ChangePlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	return m.changePlanFunc(ctx, slug, plan)
}

type mockOrderService struct {
	createFunc       func(ctx context.Context, in validation.CreateOrder) (*domain.Order, error)
	getFunc          func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	listFunc         func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	updateStatusFunc func(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
}

func (m *mockOrderService) Create(ctx context.Context, in validation.CreateOrder) (*domain.Order, error) {
	return m.createFunc(ctx, in)
}

func (m *mockOrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.getFunc(ctx, id)
}

func (m *mockOrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	return m.updateStatusFunc(ctx, id, to)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a response with Data left raw for a second decode.
type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type mockCustomerService struct {
	createGuestFunc func(ctx context.Context, in validation.CreateGuest) (*domain.TenantUser, error)
	getFunc         func(ctx context.Context, id uuid.UUID) (*domain.TenantUser, error)
	listFunc        func(ctx context.Context, page domain.Page) ([]domain.TenantUser, int, error)
	linkFunc        func(ctx context.Context, id uuid.UUID, in validation.LinkCustomer) (*domain.TenantUser, error)
}

func (m *mockCustomerService) CreateGuest(ctx context.Context, in validation.CreateGuest) (*domain.TenantUser, error) {
	return m.createGuestFunc(ctx, in)
}

func (m *mockCustomerService) Get(ctx context.Context, id uuid.UUID) (*domain.TenantUser, error) {
	return m.getFunc(ctx, id)
}

func (m *mockCustomerService) List(ctx context.Context, page domain.Page) ([]domain.TenantUser, int, error) {
	return m.listFunc(ctx, page)
}

func (m *mockCustomerService) Link(ctx context.Context, id uuid.UUID, in validation.LinkCustomer) (*domain.TenantUser, error) {
	return m.linkFunc(ctx, id, in)
}
