// Package metrics exposes Prometheus metrics for the validation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric naming.
type Config struct {
	// Namespace prefixes every metric name. Default: "triton".
	Namespace string `yaml:"namespace"`

	// Subsystem is the second name component. Default: "validator".
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns the default metric naming.
func DefaultConfig() Config {
	return Config{Namespace: "triton", Subsystem: "validator"}
}

// ValidationMetrics tracks compilation, execution, and cache behavior.
//
// Metrics:
//   - triton_validator_compilations_total: compilations by class and status
//   - triton_validator_compilation_duration_seconds: compilation latency
//   - triton_validator_executions_total: executions by class and outcome
//   - triton_validator_execution_duration_seconds: execution latency
//   - triton_validator_issues_total: issues by code and severity
//   - triton_validator_cache_hits_total / cache_misses_total: program cache
type ValidationMetrics struct {
	compilationsTotal   *prometheus.CounterVec
	compilationDuration *prometheus.HistogramVec

	executionsTotal   *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec

	issuesTotal *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// New creates and registers the validation metrics with the registry.
func New(cfg Config, registry *prometheus.Registry) *ValidationMetrics {
	m := &ValidationMetrics{
		compilationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compilations_total",
				Help:      "Total number of program compilations",
			},
			[]string{"class", "status"},
		),

		compilationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compilation_duration_seconds",
				Help:      "Duration of program compilation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15), // 10µs to 160ms
			},
			[]string{"class"},
		),

		executionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "executions_total",
				Help:      "Total number of program executions",
			},
			[]string{"class", "outcome"},
		),

		executionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "execution_duration_seconds",
				Help:      "Duration of program execution in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"class"},
		),

		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "issues_total",
				Help:      "Total number of validation issues produced",
			},
			[]string{"code", "severity"},
		),

		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of program cache hits",
			},
		),

		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of program cache misses",
			},
		),
	}

	registry.MustRegister(
		m.compilationsTotal,
		m.compilationDuration,
		m.executionsTotal,
		m.executionDuration,
		m.issuesTotal,
		m.cacheHits,
		m.cacheMisses,
	)

	return m
}

// RecordCompilation records one compilation attempt.
func (m *ValidationMetrics) RecordCompilation(class string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.compilationsTotal.WithLabelValues(class, status).Inc()
	if err == nil {
		m.compilationDuration.WithLabelValues(class).Observe(duration.Seconds())
	}
}

// RecordExecution records one program execution and its issues.
func (m *ValidationMetrics) RecordExecution(class string, valid bool, duration time.Duration) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.executionsTotal.WithLabelValues(class, outcome).Inc()
	m.executionDuration.WithLabelValues(class).Observe(duration.Seconds())
}

// RecordIssue records one produced issue.
func (m *ValidationMetrics) RecordIssue(code, severity string) {
	m.issuesTotal.WithLabelValues(code, severity).Inc()
}

// CacheHit records a program cache hit. Together with CacheMiss this
// satisfies the cache package's Recorder interface.
func (m *ValidationMetrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss records a program cache miss.
func (m *ValidationMetrics) CacheMiss() { m.cacheMisses.Inc() }
