package rules

import (
	"context"
	"errors"
	"strings"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// ReservedSlugs cannot be claimed by tenants. They collide with platform
// hosts and routes.
var ReservedSlugs = map[string]struct{}{
	"admin":     {},
	"api":       {},
	"app":       {},
	"assets":    {},
	"auth":      {},
	"billing":   {},
	"blog":      {},
	"cdn":       {},
	"dashboard": {},
	"docs":      {},
	"help":      {},
	"localhost": {},
	"login":     {},
	"logout":    {},
	"mail":      {},
	"platform":  {},
	"register":  {},
	"root":      {},
	"signup":    {},
	"static":    {},
	"status":    {},
	"support":   {},
	"system":    {},
	"www":       {},
}

// IsReservedSlug reports whether slug is reserved, ignoring case.
func IsReservedSlug(slug string) bool {
	_, ok := ReservedSlugs[strings.ToLower(strings.TrimSpace(slug))]
	return ok
}

func (e *Engine) CheckTenantCreate(ctx context.Context, req TenantCreate) (Result, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if IsReservedSlug(slug) {
		return Fail(CodeReservedSlug, "This slug is reserved", map[string]any{"slug": slug}), nil
	}

	if e.dir == nil {
		return Result{}, errors.New("rules: tenant checks need a directory")
	}
	_, err := e.dir.GetTenantBySlug(ctx, slug)
	ok, err := found(err)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Fail(CodeDuplicateSlug, "A store with this slug already exists", map[string]any{"slug": slug}), nil
	}
	return Pass(), nil
}

// ValidatePlanChange only allows moves along free -> basic -> premium -> enterprise.
// Staying on the current plan is not a move and passes.
func ValidatePlanChange(current, requested domain.Plan) Result {
	if !requested.Valid() {
		return Fail(CodeInvalidPlan, "Unknown plan", map[string]any{"plan": string(requested)})
	}
	if requested.Rank() < current.Rank() {
		return Fail(CodePlanDowngrade, "Plan downgrades are not allowed", map[string]any{
			"current":   string(current),
			"requested": string(requested),
		})
	}
	return Pass()
}
