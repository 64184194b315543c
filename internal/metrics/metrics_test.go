package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Registered(t *testing.T) {
	m := New()

	m.AnalysesTotal.WithLabelValues("High Deception").Inc()
	m.VerificationsTotal.WithLabelValues("VERIFIED").Add(3)
	m.ContradictionsTotal.Add(2)
	m.KBLoadWarnings.Inc()
	m.KBEntities.Set(42)
	m.KBRelationships.Set(17)
	m.AnalysisDuration.Observe(0.003)

	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("High Deception")); got != 1 {
		t.Errorf("Expected 1 analysis, got %v", got)
	}
	if got := testutil.ToFloat64(m.VerificationsTotal.WithLabelValues("VERIFIED")); got != 3 {
		t.Errorf("Expected 3 verifications, got %v", got)
	}
	if got := testutil.ToFloat64(m.KBEntities); got != 42 {
		t.Errorf("Expected 42 entities, got %v", got)
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Expected gather to succeed, got %v", err)
	}
	if len(families) != 7 {
		t.Errorf("Expected 7 metric families, got %d", len(families))
	}
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	// Two instances must not collide; each carries its own registry.
	a := New()
	b := New()

	a.KBEntities.Set(1)
	if got := testutil.ToFloat64(b.KBEntities); got != 0 {
		t.Errorf("Expected isolated registries, got %v", got)
	}
}
