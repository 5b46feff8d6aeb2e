package rules

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	checkFunc func(ctx context.Context, req Request) (Result, error)
	calls     int
}

func (m *mockChecker) Check(ctx context.Context, req Request) (Result, error) {
	m.calls++
	return m.checkFunc(ctx, req)
}

func runEnforce(t *testing.T, checker Checker, build BuildFunc) (bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/x/items", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Enforce(checker, build)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusCreated)
	})
	err := handler(c)
	return called, err
}

func cartBuild(quantity int) BuildFunc {
	return func(c echo.Context) (Request, error) {
		return CartItemAdd{ProductID: uuid.New(), Quantity: quantity}, nil
	}
}

func Test_Enforce_PassesThrough(t *testing.T) {
	checker := &mockChecker{checkFunc: func(ctx context.Context, req Request) (Result, error) {
		return Pass(), nil
	}}

	called, err := runEnforce(t, checker, cartBuild(1))

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, checker.calls)
}

func Test_Enforce_ViolationShortCircuits(t *testing.T) {
	checker := &mockChecker{checkFunc: func(ctx context.Context, req Request) (Result, error) {
		return ValidateCartQuantity(req.(CartItemAdd).Quantity), nil
	}}

	called, err := runEnforce(t, checker, cartBuild(101))

	assert.False(t, called)
	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, CodeQuantityExceeded, v.Code)
	assert.Equal(t, 100, v.Details["max"])
}

func Test_Enforce_StoreFailureIsInternal(t *testing.T) {
	checker := &mockChecker{checkFunc: func(ctx context.Context, req Request) (Result, error) {
		return Result{}, errors.New("pool closed")
	}}

	called, err := runEnforce(t, checker, cartBuild(1))

	assert.False(t, called)
	_, isViolation := AsViolation(err)
	assert.False(t, isViolation)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func Test_Enforce_BuildErrorSkipsChecker(t *testing.T) {
	checker := &mockChecker{checkFunc: func(ctx context.Context, req Request) (Result, error) {
		return Pass(), nil
	}}
	build := func(c echo.Context) (Request, error) {
		return nil, domain.ErrTenantRequired
	}

	called, err := runEnforce(t, checker, build)

	assert.False(t, called)
	assert.Zero(t, checker.calls)
	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}
