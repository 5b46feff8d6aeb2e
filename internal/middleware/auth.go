package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// UserIDHeader carries the caller's user id when the upstream proxy has
// already authenticated the request.
const UserIDHeader = "X-User-ID"

// Verifier authenticates a request with the external identity provider.
// It returns (nil, nil) for anonymous requests and an error for
// credentials that are present but invalid.
type Verifier interface {
	Verify(r *http.Request) (*domain.User, error)
}

// UserFinder loads global users.
type UserFinder interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// HeaderVerifier trusts UserIDHeader. Only use it behind a proxy that
// strips the header from client requests, or in development.
type HeaderVerifier struct {
	Users UserFinder
}

func (v HeaderVerifier) Verify(r *http.Request) (*domain.User, error) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.Unauthorized("middleware.verify", "Invalid user id")
	}
	user, err := v.Users.GetUser(r.Context(), id)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Unauthorized("middleware.verify", "Unknown user")
		}
		return nil, err
	}
	return user, nil
}

// AnonymousVerifier treats every request as anonymous.
type AnonymousVerifier struct{}

func (AnonymousVerifier) Verify(*http.Request) (*domain.User, error) { return nil, nil }

// Authenticate adds the verified user to the request context.
// This middleware is optional - anonymous requests continue without a user.
func Authenticate(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			user, err := v.Verify(r)
			if err != nil {
				if domain.IsCode(err, domain.EUNAUTHORIZED) {
					return err
				}
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("user verification failed")
				return domain.Internal(err, "middleware.authenticate", "failed to verify user")
			}
			if user == nil {
				return next(c)
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			ctx = zerolog.Ctx(ctx).With().Str("user_id", user.ID.String()).Logger().WithContext(ctx)
			c.SetRequest(r.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if domain.UserFromContext(c.Request().Context()) == nil {
			return domain.Unauthorized("middleware.requireAuth", "Authentication required")
		}
		return next(c)
	}
}
