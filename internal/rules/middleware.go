package rules

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// BuildFunc turns a request, usually after validation middleware has run,
// into a typed rule request.
type BuildFunc func(c echo.Context) (Request, error)

// Enforce runs checker on the request built by build before the handler.
//
// A broken rule short-circuits with its *Violation (rendered as 400). A store
// failure short-circuits with an internal error (rendered as 500) so that
// client and server faults stay distinguishable.
func Enforce(checker Checker, build BuildFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			logger := zerolog.Ctx(ctx)

			req, err := build(c)
			if err != nil {
				return err
			}

			res, err := checker.Check(ctx, req)
			if err != nil {
				logger.Error().Err(err).Str("family", req.Family()).Msg("business rule check failed")
				return domain.Internal(err, "rules."+req.Family(), "failed to evaluate business rules")
			}
			if !res.Valid {
				logger.Info().
					Str("family", req.Family()).
					Str("code", res.Code).
					Interface("details", res.Details).
					Msg("business rule violation")
				return res.Err()
			}

			return next(c)
		}
	}
}
