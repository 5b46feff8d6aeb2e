package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MOCK RESOLVER
// =============================================================================

// mockResolver is a mock implementation of tenant.Resolver for testing.
type mockResolver struct {
	bySlugFunc   func(ctx context.Context, slug string) (*domain.Tenant, error)
	byDomainFunc func(ctx context.Context, domain string) (*domain.Tenant, error)
	byIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

func (m *mockResolver) BySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if m.bySlugFunc != nil {
		return m.bySlugFunc(ctx, slug)
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockResolver) ByDomain(ctx context.Context, d string) (*domain.Tenant, error) {
	if m.byDomainFunc != nil {
		return m.byDomainFunc(ctx, d)
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockResolver) ByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if m.byIDFunc != nil {
		return m.byIDFunc(ctx, id)
	}
	return nil, tenant.ErrTenantNotFound
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func newTenant(slug string, status domain.TenantStatus) *domain.Tenant {
	return &domain.Tenant{
		ID:     uuid.NewSHA1(uuid.NameSpaceDNS, []byte(slug)),
		Slug:   slug,
		Name:   slug,
		Plan:   domain.PlanFree,
		Status: status,
	}
}

func slugResolver(tenants ...*domain.Tenant) *mockResolver {
	bySlug := make(map[string]*domain.Tenant, len(tenants))
	byDomain := make(map[string]*domain.Tenant)
	for _, t := range tenants {
		bySlug[t.Slug] = t
		if t.Domain != nil {
			byDomain[*t.Domain] = t
		}
	}
	return &mockResolver{
		bySlugFunc: func(ctx context.Context, slug string) (*domain.Tenant, error) {
			if t, ok := bySlug[slug]; ok {
				return t, nil
			}
			return nil, tenant.ErrTenantNotFound
		},
		byDomainFunc: func(ctx context.Context, d string) (*domain.Tenant, error) {
			if t, ok := byDomain[d]; ok {
				return t, nil
			}
			return nil, tenant.ErrTenantNotFound
		},
	}
}

// serveTenant runs a request through ResolveTenant with the real error
// handler and reports the tenant the handler saw.
func serveTenant(t *testing.T, cfg TenantConfig, req *http.Request) (*httptest.ResponseRecorder, *domain.Tenant, bool) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler

	var seen *domain.Tenant
	called := false
	e.GET("/api/v1/products", func(c echo.Context) error {
		called = true
		seen = tenant.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, ResolveTenant(cfg))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen, called
}

// =============================================================================
// TESTS: ResolveTenant - Tenant Resolution
// =============================================================================

func Test_ResolveTenant_HostResolution(t *testing.T) {
	shopDomain := "acme-store.com"
	custom := newTenant("custom", domain.TenantStatusActive)
	custom.Domain = &shopDomain

	resolver := slugResolver(
		newTenant("acme", domain.TenantStatusActive),
		newTenant("pending", domain.TenantStatusPending),
		newTenant("inactive", domain.TenantStatusInactive),
		newTenant("suspended", domain.TenantStatusSuspended),
		custom,
	)

	tests := []struct {
		name             string
		host             string
		expectSlug       string
		expectStatus     int
		expectRetryAfter bool
	}{
		{
			name:         "local subdomain resolves to active tenant",
			host:         "acme.localhost:3000",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "three-label host resolves by first label",
			host:         "acme.shops.example",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "two-label host resolves by custom domain",
			host:         "acme-store.com",
			expectSlug:   "custom",
			expectStatus: http.StatusOK,
		},
		{
			name:         "unknown subdomain returns 404",
			host:         "nonexistent.localhost:3000",
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "pending tenant returns 404",
			host:         "pending.localhost",
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "inactive tenant returns 404",
			host:         "inactive.localhost",
			expectStatus: http.StatusNotFound,
		},
		{
			name:             "suspended tenant returns 503 with retry-after",
			host:             "suspended.localhost",
			expectStatus:     http.StatusServiceUnavailable,
			expectRetryAfter: true,
		},
		{
			name:         "base domain apex passes through without tenant",
			host:         "shops.example",
			expectStatus: http.StatusOK,
		},
		{
			name:         "bare localhost passes through without tenant",
			host:         "localhost:3000",
			expectStatus: http.StatusOK,
		},
		{
			name:         "reserved subdomain passes through without tenant",
			host:         "api.shops.example",
			expectStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			req.Host = tt.host

			rec, seen, _ := serveTenant(t, TenantConfig{BaseDomain: "shops.example", Resolver: resolver}, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectSlug != "" {
				require.NotNil(t, seen)
				assert.Equal(t, tt.expectSlug, seen.Slug)
			} else {
				assert.Nil(t, seen)
			}
			if tt.expectRetryAfter {
				assert.Equal(t, RetryAfterSuspended, rec.Header().Get("Retry-After"))
			}
		})
	}
}

func Test_ResolveTenant_HeaderResolution(t *testing.T) {
	resolver := slugResolver(
		newTenant("acme", domain.TenantStatusActive),
		newTenant("globex", domain.TenantStatusActive),
	)
	cfg := TenantConfig{BaseDomain: "localhost", Resolver: resolver}

	tests := []struct {
		name         string
		host         string
		header       string
		expectSlug   string
		expectStatus int
		expectCode   string
	}{
		{
			name:         "header alone resolves tenant",
			host:         "localhost:3000",
			header:       "acme",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "header is case-insensitive",
			host:         "localhost:3000",
			header:       "ACME",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "header and host agree",
			host:         "acme.localhost:3000",
			header:       "acme",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "header and host disagree",
			host:         "acme.localhost:3000",
			header:       "globex",
			expectStatus: http.StatusBadRequest,
			expectCode:   handler.CodeTenantMismatch,
		},
		{
			name:         "reserved platform host defers to header",
			host:         "api.localhost:3000",
			header:       "acme",
			expectSlug:   "acme",
			expectStatus: http.StatusOK,
		},
		{
			name:         "unknown header slug",
			host:         "localhost:3000",
			header:       "nobody",
			expectStatus: http.StatusNotFound,
			expectCode:   handler.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			req.Host = tt.host
			req.Header.Set(TenantHeader, tt.header)

			rec, seen, called := serveTenant(t, cfg, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectSlug != "" {
				require.True(t, called)
				assert.Equal(t, tt.expectSlug, seen.Slug)
			} else {
				assert.False(t, called)
			}
			if tt.expectCode != "" {
				assert.Contains(t, rec.Body.String(), `"code":"`+tt.expectCode+`"`)
			}
		})
	}
}

func Test_ResolveTenant_ResolverFailureIs500(t *testing.T) {
	resolver := &mockResolver{
		bySlugFunc: func(ctx context.Context, slug string) (*domain.Tenant, error) {
			return nil, errors.New("connection refused")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Host = "acme.localhost"

	rec, _, called := serveTenant(t, TenantConfig{Resolver: resolver}, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func Test_RequireTenant(t *testing.T) {
	e := echo.New()
	h := RequireTenant(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.ErrorIs(t, h(c), tenant.ErrNoTenant)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(tenant.NewContext(req.Context(), newTenant("acme", domain.TenantStatusActive)))
	c = e.NewContext(req, httptest.NewRecorder())
	assert.NoError(t, h(c))
}
