// Package metrics exposes prometheus instrumentation for session commands and storage.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/shared"
)

const namespace = "siswa"

// Metrics holds every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	students        prometheus.Gauge
	kvOps           *prometheus.CounterVec
	kvDuration      *prometheus.HistogramVec
	requests        *prometheus.CounterVec
}

// New registers the collectors. Go runtime and process collectors are included when runtime is
// true.
func New(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Session commands by operation and result.",
		}, []string{"op", "result"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Session command latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		students: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "students",
			Help:      "Records in the collection.",
		}),
		kvOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kv",
			Name:      "operations_total",
			Help:      "Key-value operations by driver, operation and result.",
		}, []string{"driver", "op", "result"}),
		kvDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kv",
			Name:      "operation_duration_seconds",
			Help:      "Key-value operation latency.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"driver", "op"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(m.commands, m.commandDuration, m.students, m.kvOps, m.kvDuration, m.requests)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CommandCompleted records one session command.
func (m *Metrics) CommandCompleted(op string, err error, elapsed time.Duration) {
	m.commands.WithLabelValues(op, result(err)).Inc()
	m.commandDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// StudentsChanged sets the collection size gauge.
func (m *Metrics) StudentsChanged(total int) {
	m.students.Set(float64(total))
}

// InstrumentHandler counts requests served by next.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests, next)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, shared.ErrValidation):
		return "invalid"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrConfirmationRequired):
		return "cancelled"
	case errors.Is(err, shared.ErrPersistence):
		return "persistence_error"
	default:
		return "error"
	}
}

// Instrument wraps store so every Get and Set is counted and timed.
func (m *Metrics) Instrument(store kv.Store) kv.Store {
	return &instrumented{Store: store, m: m, driver: string(store.Driver())}
}

type instrumented struct {
	kv.Store
	m      *Metrics
	driver string
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	started := time.Now()
	value, ok, err := s.Store.Get(ctx, key)
	s.observe("get", started, err)
	return value, ok, err
}

func (s *instrumented) Set(ctx context.Context, key string, value []byte) error {
	started := time.Now()
	err := s.Store.Set(ctx, key, value)
	s.observe("set", started, err)
	return err
}

func (s *instrumented) observe(op string, started time.Time, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	s.m.kvOps.WithLabelValues(s.driver, op, res).Inc()
	s.m.kvDuration.WithLabelValues(s.driver, op).Observe(time.Since(started).Seconds())
}
