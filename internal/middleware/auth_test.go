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

type mockUserFinder struct {
	getUserFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserFinder) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return nil, domain.NotFound("test", "user", id.String())
}

type mockMembershipFinder struct {
	getMembershipFunc func(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error)
}

func (m *mockMembershipFinder) GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	if m.getMembershipFunc != nil {
		return m.getMembershipFunc(ctx, tenantID, userID)
	}
	return nil, domain.NotFound("test", "membership", userID.String())
}

func Test_HeaderVerifier(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Email: "alice@example.com"}
	v := HeaderVerifier{Users: &mockUserFinder{getUserFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id == alice.ID {
			return alice, nil
		}
		return nil, domain.NotFound("test", "user", id.String())
	}}}

	tests := []struct {
		name       string
		header     string
		expectUser bool
		expectCode string
	}{
		{name: "no header is anonymous"},
		{name: "known user", header: alice.ID.String(), expectUser: true},
		{name: "malformed id", header: "alice", expectCode: domain.EUNAUTHORIZED},
		{name: "unknown user", header: uuid.NewString(), expectCode: domain.EUNAUTHORIZED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}

			user, err := v.Verify(req)

			if tt.expectCode != "" {
				assert.Equal(t, tt.expectCode, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectUser, user != nil)
		})
	}
}

// adminRoute wires the membership chain the way routes does.
func adminRoute(users UserFinder, members MembershipFinder, t *domain.Tenant, role domain.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler

	withTenant := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			c.SetRequest(r.WithContext(tenant.NewContext(r.Context(), t)))
			return next(c)
		}
	}
	e.DELETE("/admin/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, withTenant, Authenticate(HeaderVerifier{Users: users}), LoadMembership(members), RequireRole(role))
	return e
}

func Test_RequireRole(t *testing.T) {
	acme := newTenant("acme", domain.TenantStatusActive)
	users := map[uuid.UUID]*domain.User{}
	members := map[uuid.UUID]*domain.Membership{}

	addUser := func(role domain.Role, active bool, platform bool) uuid.UUID {
		u := &domain.User{ID: uuid.New(), PlatformAdmin: platform}
		users[u.ID] = u
		if role != "" {
			members[u.ID] = &domain.Membership{TenantID: acme.ID, UserID: u.ID, Role: role, Active: active}
		}
		return u.ID
	}
	owner := addUser(domain.RoleOwner, true, false)
	admin := addUser(domain.RoleAdmin, true, false)
	staff := addUser(domain.RoleStaff, true, false)
	formerAdmin := addUser(domain.RoleAdmin, false, false)
	outsider := addUser("", false, false)
	operator := addUser("", false, true)

	userFinder := &mockUserFinder{getUserFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, domain.NotFound("test", "user", id.String())
	}}
	memberFinder := &mockMembershipFinder{getMembershipFunc: func(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
		assert.Equal(t, acme.ID, tenantID)
		if m, ok := members[userID]; ok {
			return m, nil
		}
		return nil, domain.NotFound("test", "membership", userID.String())
	}}
	e := adminRoute(userFinder, memberFinder, acme, domain.RoleAdmin)

	tests := []struct {
		name   string
		userID string
		expect int
	}{
		{name: "anonymous", expect: http.StatusUnauthorized},
		{name: "owner outranks admin", userID: owner.String(), expect: http.StatusNoContent},
		{name: "admin meets admin", userID: admin.String(), expect: http.StatusNoContent},
		{name: "staff below admin", userID: staff.String(), expect: http.StatusForbidden},
		{name: "deactivated membership", userID: formerAdmin.String(), expect: http.StatusForbidden},
		{name: "no membership", userID: outsider.String(), expect: http.StatusForbidden},
		{name: "platform admin", userID: operator.String(), expect: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin/products/1", nil)
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.expect, rec.Code)
		})
	}
}

func Test_LoadMembership_FailureIs500(t *testing.T) {
	acme := newTenant("acme", domain.TenantStatusActive)
	user := &domain.User{ID: uuid.New()}
	e := adminRoute(
		&mockUserFinder{getUserFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) { return user, nil }},
		&mockMembershipFinder{getMembershipFunc: func(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
			return nil, errors.New("pool exhausted")
		}},
		acme, domain.RoleViewer,
	)

	req := httptest.NewRequest(http.MethodDelete, "/admin/products/1", nil)
	req.Header.Set(UserIDHeader, user.ID.String())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func Test_RequirePlatformAdmin(t *testing.T) {
	e := echo.New()
	h := RequirePlatformAdmin(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	run := func(user *domain.User) error {
		req := httptest.NewRequest(http.MethodPost, "/platform/tenants", nil)
		if user != nil {
			req = req.WithContext(domain.NewContextWithUser(req.Context(), user))
		}
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(run(nil)))
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(run(&domain.User{ID: uuid.New()})))
	assert.NoError(t, run(&domain.User{ID: uuid.New(), PlatformAdmin: true}))
}

func Test_RequireAuth(t *testing.T) {
	e := echo.New()
	h := RequireAuth(func(c echo.Context) error { return nil })

	err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}
