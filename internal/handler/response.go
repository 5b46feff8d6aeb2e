// Package handler renders API responses.
//
// Every response uses the same envelope. Handlers return errors; ErrorHandler
// is installed as echo's HTTPErrorHandler and turns them into envelopes.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/rules"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// Envelope codes that are not rule codes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeBadRequest     = "BAD_REQUEST"
	CodeTenantMismatch = "TENANT_MISMATCH"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// Envelope is the body of every API response.
type Envelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// OK writes a successful envelope.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{OK: true, Data: data})
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var envelopeCodes = map[string]string{
	domain.EINVALID:      CodeBadRequest,
	domain.EUNAUTHORIZED: CodeUnauthorized,
	domain.EFORBIDDEN:    CodeForbidden,
	domain.ENOTFOUND:     CodeNotFound,
	domain.ECONFLICT:     CodeConflict,
	domain.EUNAVAILABLE:  CodeUnavailable,
	domain.EINTERNAL:     CodeInternal,
}

// Render maps err to a status and envelope.
//
//   - *validation.Error: 400 VALIDATION_ERROR with the issue list
//   - *rules.Violation: 400 with the rule code and details
//   - *domain.Error: status by code; internal errors hide their message
//   - *echo.HTTPError: its status (unknown routes, wrong methods)
//   - anything else: 500 with a generic message
func Render(err error) (int, Envelope) {
	if verr, ok := validation.AsError(err); ok {
		return http.StatusBadRequest, Envelope{
			Error:   "Validation failed",
			Code:    CodeValidation,
			Details: verr.Issues,
		}
	}
	if v, ok := rules.AsViolation(err); ok {
		env := Envelope{Error: v.Result.Error, Code: v.Code}
		if len(v.Details) > 0 {
			env.Details = v.Details
		}
		return http.StatusBadRequest, env
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, Envelope{Error: http.StatusText(he.Code), Code: httpStatusCode(he.Code)}
	}

	code := domain.ErrorCode(err)
	env := Envelope{
		Error: domain.ErrorMessage(err),
		Code:  envelopeCodes[code],
	}
	if env.Code == "" {
		env.Code = CodeInternal
	}
	if errors.Is(err, domain.ErrTenantMismatch) {
		env.Code = CodeTenantMismatch
	}
	if details := domain.ErrorDetails(err); len(details) > 0 {
		env.Details = details
	}
	return ErrorCodeToHTTPStatus(code), env
}

// ErrorHandler is echo's HTTPErrorHandler. Server faults are logged with the
// underlying error, which never reaches the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, env := Render(err)
	logger := zerolog.Ctx(c.Request().Context())
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error().Err(err).Str("op", domain.ErrorOp(err)).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Str("code", env.Code).Msg("request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, env)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}

func httpStatusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return CodeBadRequest
}
