// Package telemetry holds the business-level Prometheus metrics.
package telemetry

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/saod-ux/saas-project-sub000/internal/validation"
)

// BusinessMetrics counts rejected requests and tenant cache outcomes.
// It implements service.Recorder and tenant.Observer.
type BusinessMetrics struct {
	// Input and rule rejections
	RuleViolations     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Tenant resolution
	TenantCacheLookups *prometheus.CounterVec
}

// NewBusinessMetrics creates the business metrics and registers them with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "storefront"
	}

	subsystem := "business"
	factory := promauto.With(reg)

	m := &BusinessMetrics{
		RuleViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rule_violations_total",
				Help:      "Requests rejected by a business rule",
			},
			[]string{"family", "code"}, // family: product.create, order.create, cart.add, etc.
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validation_failures_total",
				Help:      "Requests rejected by schema validation",
			},
			[]string{"schema"},
		),
		TenantCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tenant_cache",
				Name:      "lookups_total",
				Help:      "Tenant cache lookups by key kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: slug, domain, id; outcome: hit, miss
		),
	}

	return m
}

func (m *BusinessMetrics) RuleViolation(family, code string) {
	m.RuleViolations.WithLabelValues(family, code).Inc()
}

func (m *BusinessMetrics) ValidationFailed(schema string) {
	m.ValidationFailures.WithLabelValues(schema).Inc()
}

func (m *BusinessMetrics) CacheHit(kind string) {
	m.TenantCacheLookups.WithLabelValues(kind, "hit").Inc()
}

func (m *BusinessMetrics) CacheMiss(kind string) {
	m.TenantCacheLookups.WithLabelValues(kind, "miss").Inc()
}

// CountValidationFailures counts validation errors returned by the rest of
// the chain. Install it outside the validation middleware.
func (m *BusinessMetrics) CountValidationFailures() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if verr, ok := validation.AsError(err); ok {
				m.ValidationFailed(verr.Schema)
			}
			return err
		}
	}
}
