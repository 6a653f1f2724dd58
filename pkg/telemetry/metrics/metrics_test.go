package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCompilation(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(DefaultConfig(), registry)

	m.RecordCompilation("Person", nil, 5*time.Millisecond)
	m.RecordCompilation("Person", nil, 3*time.Millisecond)
	m.RecordCompilation("Broken", errors.New("abstract"), 0)

	success := testutil.ToFloat64(m.compilationsTotal.WithLabelValues("Person", "success"))
	if success != 2 {
		t.Errorf("success compilations = %v, want 2", success)
	}
	failed := testutil.ToFloat64(m.compilationsTotal.WithLabelValues("Broken", "error"))
	if failed != 1 {
		t.Errorf("failed compilations = %v, want 1", failed)
	}
}

func TestRecordExecution(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(DefaultConfig(), registry)

	m.RecordExecution("Person", true, time.Microsecond)
	m.RecordExecution("Person", false, time.Microsecond)
	m.RecordExecution("Person", false, time.Microsecond)

	valid := testutil.ToFloat64(m.executionsTotal.WithLabelValues("Person", "valid"))
	invalid := testutil.ToFloat64(m.executionsTotal.WithLabelValues("Person", "invalid"))
	if valid != 1 || invalid != 2 {
		t.Errorf("executions = %v valid / %v invalid, want 1/2", valid, invalid)
	}
}

func TestRecordIssue(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(DefaultConfig(), registry)

	m.RecordIssue("pattern_mismatch", "error")
	m.RecordIssue("pattern_mismatch", "error")
	m.RecordIssue("range_violation", "warning")

	if got := testutil.ToFloat64(m.issuesTotal.WithLabelValues("pattern_mismatch", "error")); got != 2 {
		t.Errorf("pattern_mismatch issues = %v, want 2", got)
	}
}

func TestCacheRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(DefaultConfig(), registry)

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()

	if got := testutil.ToFloat64(m.cacheHits); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheMisses); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
}

func TestMetricNaming(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(Config{Namespace: "custom", Subsystem: "sub"}, registry)
	m.CacheHit()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "custom_sub_cache_hits_total" {
			found = true
		}
	}
	if !found {
		t.Error("metric names should carry the configured namespace and subsystem")
	}
}
