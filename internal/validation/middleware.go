package validation

import (
	"io"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// Source names where a middleware reads its raw input.
type Source string

const (
	SourceBody    Source = "body"
	SourceQuery   Source = "query"
	SourceParams  Source = "params"
	SourceHeaders Source = "headers"
)

// MaxBodyBytes bounds request bodies read by Body.
const MaxBodyBytes = 1 << 20

// Body validates the JSON request body against T.
func Body[T any]() echo.MiddlewareFunc { return Middleware[T](SourceBody) }

// Query validates the URL query string against T.
func Query[T any]() echo.MiddlewareFunc { return Middleware[T](SourceQuery) }

// Params validates route parameters against T.
func Params[T any]() echo.MiddlewareFunc { return Middleware[T](SourceParams) }

// Headers validates the request headers that T declares; other headers are ignored.
func Headers[T any]() echo.MiddlewareFunc { return Middleware[T](SourceHeaders) }

// Middleware validates input from src against T. On success the value is
// stored on the echo context for Get; on failure the *Error is returned to
// the HTTP error handler and the handler never runs.
func Middleware[T any](src Source) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value, err := extract[T](c, src)
			if err != nil {
				logger := zerolog.Ctx(c.Request().Context())
				if verr, ok := AsError(err); ok {
					logger.Info().
						Str("source", string(src)).
						Str("schema", verr.Schema).
						Strs("fields", verr.Fields()).
						Msg("request validation failed")
					return err
				}
				logger.Error().Err(err).Str("source", string(src)).Msg("failed to read request input")
				return domain.Internal(err, "validation."+string(src), "failed to read request")
			}

			Set(c, value)
			return next(c)
		}
	}
}

// Get returns the value validated for T by an earlier middleware.
// It panics when the route was registered without one.
func Get[T any](c echo.Context) T {
	value, ok := c.Get(contextKey[T]()).(T)
	if !ok {
		panic("validation.Get: no validated " + reflect.TypeFor[T]().String() + " on context")
	}
	return value
}

// Set stores value as the validated T.
func Set[T any](c echo.Context, value T) {
	c.Set(contextKey[T](), value)
}

// Lookup is Get without the panic.
func Lookup[T any](c echo.Context) (T, bool) {
	value, ok := c.Get(contextKey[T]()).(T)
	return value, ok
}

func contextKey[T any]() string {
	return "validated:" + reflect.TypeFor[T]().String()
}

func extract[T any](c echo.Context, src Source) (T, error) {
	req := c.Request()
	switch src {
	case SourceQuery:
		return ValidateValues[T](req.URL.Query())
	case SourceParams:
		names, values := c.ParamNames(), c.ParamValues()
		params := make(map[string][]string, len(names))
		for i, name := range names {
			if i < len(values) {
				params[name] = []string{values[i]}
			}
		}
		return ValidateValues[T](params)
	case SourceHeaders:
		return ValidateValues[T](declaredHeaders[T](req.Header))
	default:
		body, err := io.ReadAll(io.LimitReader(req.Body, MaxBodyBytes+1))
		if err != nil {
			var zero T
			return zero, err
		}
		if len(body) > MaxBodyBytes {
			var zero T
			return zero, &Error{
				Schema: reflect.TypeFor[T]().Name(),
				Issues: []Issue{{Field: "(root)", Rule: "max", Message: "request body too large"}},
			}
		}
		return Validate[T](body)
	}
}

// declaredHeaders keeps only the headers named by T. Lookup is case-insensitive.
func declaredHeaders[T any](h http.Header) map[string][]string {
	t := reflect.TypeFor[T]()
	out := make(map[string][]string)
	for _, f := range schemaFields(t) {
		if values := h.Values(f.name); len(values) > 0 {
			out[f.name] = values
		}
	}
	return out
}
