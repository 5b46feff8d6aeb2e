package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// PostgreSQL error codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// conflictMessages maps unique constraints to client-facing messages.
var conflictMessages = map[string]string{
	"tenants_slug_key":                  "A store with this slug already exists",
	"tenants_domain_key":                "This domain is already used by another store",
	"users_email_key":                   "A user with this email already exists",
	"products_tenant_sku_key":           "SKU already exists",
	"products_tenant_id_slug_key":       "A product with this slug already exists",
	"categories_tenant_id_slug_key":     "A category with this slug already exists",
	"memberships_tenant_id_user_id_key": "User is already a member of this store",
}

// mapError converts driver errors into domain errors. Lookups that match
// no row become not found; constraint violations become conflicts or
// invalid input; everything else is internal.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.Error{Code: domain.ENOTFOUND, Op: op, Message: "Record not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			msg, ok := conflictMessages[pgErr.ConstraintName]
			if !ok {
				msg = "Record already exists"
			}
			return &domain.Error{Code: domain.ECONFLICT, Op: op, Message: msg, Err: err}
		case foreignKeyViolation:
			return &domain.Error{Code: domain.EINVALID, Op: op, Message: "Referenced record does not exist", Err: err}
		case checkViolation:
			return &domain.Error{Code: domain.EINVALID, Op: op, Message: "Value is out of range", Err: err}
		}
	}

	return domain.Internal(err, op, "database operation failed")
}

// notFound reports a missing row as a domain not-found error.
func notFound(err error, op, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(op, resource, id)
	}
	return mapError(err, op)
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

// add appends a condition; each "?" in cond is replaced by the next
// positional parameter.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
