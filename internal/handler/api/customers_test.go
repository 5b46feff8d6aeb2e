package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/handler"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerRoutes(svc CustomerService) *echo.Echo {
	h := NewCustomerHandler(svc)
	e := newTestEcho()
	id := validation.Params[validation.IDParam]()
	e.GET("/admin/customers", h.List, validation.Query[validation.Pagination]())
	e.POST("/admin/customers/:id/link", h.Link, id, validation.Body[validation.LinkCustomer]())
	return e
}

func TestCustomerHandler_Link(t *testing.T) {
	customerID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"linked", `{"userId":"` + userID.String() + `"}`, nil, http.StatusOK, ""},
		{"missing user id", `{}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"already linked", `{"userId":"` + userID.String() + `"}`,
			domain.Errorf(domain.ECONFLICT, "", "Customer is already linked to another user"),
			http.StatusConflict, handler.CodeConflict},
		{"unknown customer", `{"userId":"` + userID.String() + `"}`,
			domain.Errorf(domain.ENOTFOUND, "", "Customer not found"),
			http.StatusNotFound, handler.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCustomerService{linkFunc: func(ctx context.Context, id uuid.UUID, in validation.LinkCustomer) (*domain.TenantUser, error) {
				assert.Equal(t, customerID, id)
				assert.Equal(t, userID, in.UserID)
				if tt.err != nil {
					return nil, tt.err
				}
				return &domain.TenantUser{ID: id, UserID: &in.UserID}, nil
			}}

			rec := doJSON(customerRoutes(svc), http.MethodPost, "/admin/customers/"+customerID.String()+"/link", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeEnvelope(t, rec).Code)
		})
	}
}

func TestCustomerHandler_List(t *testing.T) {
	var got domain.Page
	svc := &mockCustomerService{listFunc: func(ctx context.Context, page domain.Page) ([]domain.TenantUser, int, error) {
		got = page
		return []domain.TenantUser{{Email: "a@acme.test"}}, 7, nil
	}}

	rec := doJSON(customerRoutes(svc), http.MethodGet, "/admin/customers?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Page{Limit: 5, Offset: 5}, got)

	var list List[domain.TenantUser]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	assert.Equal(t, 7, list.Total)
	assert.Len(t, list.Items, 1)
}
