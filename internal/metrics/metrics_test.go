package metrics

import (
	"testing"

	"quizshow-scoreboard/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.ActionApplied(domain.FormatFreeze, domain.ActionWrong)
	p.ActionApplied(domain.FormatFreeze, domain.ActionWrong)
	p.ActionBlocked(domain.FormatFreeze)
	p.Undo("group-1")

	if got := testutil.ToFloat64(p.actions.WithLabelValues("Freeze10", "wrong")); got != 2 {
		t.Fatalf("expected 2 wrong actions, got %v", got)
	}
	if got := testutil.ToFloat64(p.blocked.WithLabelValues("Freeze10")); got != 1 {
		t.Fatalf("expected 1 blocked action, got %v", got)
	}
	if got := testutil.ToFloat64(p.undos.WithLabelValues("group-1")); got != 1 {
		t.Fatalf("expected 1 undo, got %v", got)
	}
}
