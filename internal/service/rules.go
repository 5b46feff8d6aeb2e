package service

import (
	"context"

	"github.com/saod-ux/saas-project-sub000/internal/rules"
)

// Rules evaluates rule requests for the rule middleware. Tenant-scoped
// requests read through a tenant transaction; tenant requests read the
// platform directory.
type Rules struct {
	db  Database
	dir rules.Directory
	rec Recorder
}

var _ rules.Checker = (*Rules)(nil)

func NewRules(db Database, dir rules.Directory, rec Recorder) *Rules {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Rules{db: db, dir: dir, rec: rec}
}

func (r *Rules) Check(ctx context.Context, req rules.Request) (rules.Result, error) {
	var res rules.Result

	switch req.(type) {
	case rules.TenantCreate, rules.TenantPlanChange:
		var err error
		res, err = rules.NewEngine(nil, r.dir).Check(ctx, req)
		if err != nil {
			return rules.Result{}, err
		}
	default:
		t, err := tenantFromContext(ctx)
		if err != nil {
			return rules.Result{}, err
		}
		err = r.db.InTenant(ctx, t.ID, func(tx Tx) error {
			var err error
			res, err = rules.NewEngine(tx, r.dir).Check(ctx, req)
			return err
		})
		if err != nil {
			return rules.Result{}, err
		}
	}

	if !res.Valid {
		r.rec.RuleViolation(req.Family(), res.Code)
	}
	return res, nil
}

// enforce checks req against the transaction's snapshot and turns a broken
// rule into its *rules.Violation.
func enforce(ctx context.Context, tx Tx, rec Recorder, req rules.Request) error {
	res, err := rules.NewEngine(tx, nil).Check(ctx, req)
	if err != nil {
		return err
	}
	if !res.Valid {
		rec.RuleViolation(req.Family(), res.Code)
		return res.Err()
	}
	return nil
}
