package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// TenantService administers tenants on behalf of the platform. After every
// write it drops the local resolver cache entries and announces the change
// so other instances drop theirs.
type TenantService struct {
	dir    Directory
	cache  Invalidator
	events tenant.Publisher
	rec    Recorder
}

func NewTenantService(dir Directory, cache Invalidator, events tenant.Publisher, rec Recorder) *TenantService {
	if events == nil {
		events = tenant.NopPublisher{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &TenantService{dir: dir, cache: cache, events: events, rec: rec}
}

func (s *TenantService) check(ctx context.Context, req rules.Request) error {
	res, err := rules.NewEngine(nil, s.dir).Check(ctx, req)
	if err != nil {
		return err
	}
	if !res.Valid {
		s.rec.RuleViolation(req.Family(), res.Code)
		return res.Err()
	}
	return nil
}

// Create registers a tenant owned by an existing user. The slug is checked
// against reserved words and existing tenants; a concurrent create of the
// same slug fails on the store's unique constraint instead.
func (s *TenantService) Create(ctx context.Context, in validation.CreateTenant) (*domain.Tenant, error) {
	slug := strings.ToLower(in.Slug)
	if err := s.check(ctx, rules.TenantCreate{Slug: slug}); err != nil {
		return nil, err
	}

	if _, err := s.dir.GetUser(ctx, in.OwnerID); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Invalid("tenant.create", "Owner user does not exist")
		}
		return nil, err
	}

	settings, err := domain.SettingsFromMap(in.Settings)
	if err != nil {
		return nil, domain.Invalid("tenant.create", "Settings are malformed")
	}
	settingsMap, err := settings.Map()
	if err != nil {
		return nil, domain.Internal(err, "tenant.create", "failed to encode settings")
	}

	now := time.Now().UTC()
	t := &domain.Tenant{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      in.Name,
		Domain:    lowerPtr(in.Domain),
		Plan:      domain.Plan(in.Plan),
		Status:    domain.TenantStatusActive,
		Settings:  settingsMap,
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &domain.Membership{
		ID:        uuid.New(),
		TenantID:  t.ID,
		UserID:    in.OwnerID,
		Role:      domain.RoleOwner,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dir.CreateTenant(ctx, t, owner); err != nil {
		return nil, err
	}
	s.changed(ctx, tenant.OpCreated, nil, t)
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, slug string) (*domain.Tenant, error) {
	t, err := s.dir.GetTenantBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundAs(err, tenant.ErrTenantNotFound)
	}
	return t, nil
}

// Update changes the name, custom domain, status or settings of a tenant.
// A null domain detaches the custom domain.
func (s *TenantService) Update(ctx context.Context, slug string, in validation.UpdateTenant) (*domain.Tenant, error) {
	before, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	after := *before
	if in.Name != nil {
		after.Name = *in.Name
	}
	after.Domain = lowerPtr(in.Domain.Merge(before.Domain))
	if in.Status != nil {
		after.Status = domain.TenantStatus(*in.Status)
	}
	if in.Settings != nil {
		merged := make(map[string]any, len(before.Settings)+len(in.Settings))
		for k, v := range before.Settings {
			merged[k] = v
		}
		for k, v := range in.Settings {
			merged[k] = v
		}
		if _, err := domain.SettingsFromMap(merged); err != nil {
			return nil, domain.Invalid("tenant.update", "Settings are malformed")
		}
		after.Settings = merged
	}

	if err := s.save(ctx, before, &after); err != nil {
		return nil, err
	}
	return &after, nil
}

// ChangePlan moves a tenant up the plan ladder. Downgrades are rejected.
func (s *TenantService) ChangePlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	before, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, rules.TenantPlanChange{Current: before.Plan, Requested: plan}); err != nil {
		return nil, err
	}
	if before.Plan == plan {
		return before, nil
	}

	after := *before
	after.Plan = plan
	if err := s.save(ctx, before, &after); err != nil {
		return nil, err
	}
	return &after, nil
}

// Purge hard-deletes a tenant and everything it owns.
func (s *TenantService) Purge(ctx context.Context, slug string) error {
	t, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.dir.PurgeTenant(ctx, t.ID); err != nil {
		return err
	}
	s.changed(ctx, tenant.OpPurged, t, t)
	return nil
}

func (s *TenantService) save(ctx context.Context, before, after *domain.Tenant) error {
	after.UpdatedAt = time.Now().UTC()
	if err := s.dir.UpdateTenant(ctx, after); err != nil {
		return err
	}
	s.changed(ctx, tenant.OpUpdated, before, after)
	return nil
}

// changed invalidates cached copies of both versions of the tenant and
// publishes the change. Publish failures are logged; other instances then
// fall back to entry expiry.
func (s *TenantService) changed(ctx context.Context, op string, before, after *domain.Tenant) {
	if before != nil && s.cache != nil {
		s.cache.InvalidateTenant(before)
	}
	if s.cache != nil {
		s.cache.InvalidateTenant(after)
	}

	ch := tenant.Change{Op: op, ID: after.ID, Slug: after.Slug}
	if after.Domain != nil {
		ch.Domain = *after.Domain
	}
	if before != nil && before.Domain != nil && *before.Domain != ch.Domain {
		ch.PreviousDomain = *before.Domain
	}

	if err := s.events.Publish(ctx, ch); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("op", op).
			Str("tenant_id", after.ID.String()).
			Msg("Failed to publish tenant change")
	}
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
