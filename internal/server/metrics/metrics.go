// Package metrics holds the prometheus collectors of the document store.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/cryptopass/internal/common"
)

const (
	StatusOK           = "ok"
	StatusNotFound     = "not_found"
	StatusUnauthorized = "unauthorized"
	StatusRejected     = "rejected"
	StatusError        = "error"
)

// Metrics counts and times service operations.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	documents  prometheus.Counter
}

// New builds the collectors on a private registry so several servers (and
// tests) can live in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: op (service method), status (ok, not_found, unauthorized, rejected, error)
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptopass",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total document store operations by outcome",
		}, []string{"op", "status"}),

		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cryptopass",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Document store operation latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),

		documents: f.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptopass",
			Subsystem: "store",
			Name:      "documents_created_total",
			Help:      "Total documents created",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one finished operation.
func (m *Metrics) Observe(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, StatusOf(err)).Inc()
	m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Track is meant to be deferred: defer m.Track("create", time.Now(), &err).
func (m *Metrics) Track(op string, started time.Time, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	m.Observe(op, e, time.Since(started))
}

func (m *Metrics) DocumentCreated() {
	if m == nil {
		return
	}
	m.documents.Inc()
}

// StatusOf maps an operation error to a label value.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, common.ErrorNotFound):
		return StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrAuthentication):
		return StatusUnauthorized
	case errors.Is(err, common.ErrShareFinal),
		errors.Is(err, common.ErrShareExpired):
		return StatusRejected
	default:
		return StatusError
	}
}
