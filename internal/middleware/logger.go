package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// WithRequestLogger creates middleware that injects a request-scoped logger into the context.
// The logger carries request_id, method and path; handlers and middlewares read it
// with zerolog.Ctx. One access line is written when the request completes.
// This middleware should be placed after RequestID in the middleware chain.
func WithRequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logCtx := base.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)
			if requestID := domain.RequestIDFromContext(r.Context()); requestID != "" {
				logCtx = logCtx.Str("request_id", requestID)
			}
			logger := logCtx.Logger()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(logger.WithContext(r.Context())))

			event := logger.Info()
			if sw.status >= http.StatusInternalServerError {
				event = logger.Warn()
			}
			event.
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture status and size
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
