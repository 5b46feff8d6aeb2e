package service

import (
	"context"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// SettingsService reads and writes the typed store settings of the tenant
// in context. Settings live on the tenant record.
type SettingsService struct {
	tenants *TenantService
}

func NewSettingsService(tenants *TenantService) *SettingsService {
	return &SettingsService{tenants: tenants}
}

func (s *SettingsService) Get(ctx context.Context) (domain.StoreSettings, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return domain.StoreSettings{}, err
	}
	settings, err := domain.SettingsFromMap(t.Settings)
	if err != nil {
		return domain.StoreSettings{}, domain.Internal(err, "settings.get", "failed to decode store settings")
	}
	return settings, nil
}

// Update replaces the store settings. The tenant is re-read from the
// directory so a stale cached copy cannot overwrite newer fields.
func (s *SettingsService) Update(ctx context.Context, in validation.StoreSettings) (domain.StoreSettings, error) {
	t, err := tenantFromContext(ctx)
	if err != nil {
		return domain.StoreSettings{}, err
	}

	before, err := s.tenants.dir.GetTenantByID(ctx, t.ID)
	if err != nil {
		return domain.StoreSettings{}, err
	}

	settings := domain.StoreSettings{
		Currency:     in.Currency,
		Locale:       in.Locale,
		Theme:        domain.Theme(in.Theme),
		SocialLinks:  in.SocialLinks,
		Hero:         domain.Hero(in.Hero),
		ContactEmail: in.ContactEmail,
		Extra:        in.Extra,
	}
	m, err := settings.Map()
	if err != nil {
		return domain.StoreSettings{}, domain.Internal(err, "settings.update", "failed to encode store settings")
	}

	after := *before
	after.Settings = m
	if err := s.tenants.save(ctx, before, &after); err != nil {
		return domain.StoreSettings{}, err
	}
	return settings, nil
}
