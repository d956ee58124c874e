package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOpStatsSnapshotPercentiles(t *testing.T) {
	stats := NewOpStats(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		stats.Record("drop", time.Duration(us)*time.Microsecond)
	}

	snap, ok := stats.Snapshot()["drop"]
	if !ok {
		t.Fatal("expected drop stats")
	}
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinUs != 100 || snap.MaxUs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
}

func TestOpStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewOpStats(10 * time.Millisecond)
	stats.Record("fold", time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected no ops after prune, got %v", snap)
	}

	stats.Record("fold", 2*time.Millisecond)
	snap := stats.Snapshot()["fold"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinUs != 2000 || snap.MaxUs != 2000 {
		t.Fatalf("expected min=max=2000, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestOpStatsClampsNegativeDuration(t *testing.T) {
	stats := NewOpStats(time.Hour)
	stats.Record("resize", -5*time.Millisecond)

	snap := stats.Snapshot()["resize"]
	if snap.MinUs != 0 || snap.MaxUs != 0 {
		t.Fatalf("expected clamped zero sample, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestRecorderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, time.Hour)

	r.Drop("insert-column", true)
	r.Drop("", false)
	r.Drop("", false)
	r.Cleanup("remove-empty-column")
	r.ColumnOp("add", false)
	r.SetSessions(3)
	r.Observe("drop", 150*time.Microsecond)

	if got := testutil.ToFloat64(r.drops.WithLabelValues("insert-column", "applied")); got != 1 {
		t.Fatalf("expected 1 applied drop, got %v", got)
	}
	if got := testutil.ToFloat64(r.drops.WithLabelValues("none", "rejected")); got != 2 {
		t.Fatalf("expected 2 rejected drops, got %v", got)
	}
	if got := testutil.ToFloat64(r.cleanups.WithLabelValues("remove-empty-column")); got != 1 {
		t.Fatalf("expected 1 cleanup, got %v", got)
	}
	if got := testutil.ToFloat64(r.columnOps.WithLabelValues("add", "rejected")); got != 1 {
		t.Fatalf("expected 1 rejected add, got %v", got)
	}
	if got := testutil.ToFloat64(r.sessions); got != 3 {
		t.Fatalf("expected sessions=3, got %v", got)
	}
	if got := r.Stats()["drop"].Count; got != 1 {
		t.Fatalf("expected one drop latency sample, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Drop("insert-column", true)
	r.Cleanup("none")
	r.ColumnOp("add", true)
	r.Observe("drop", time.Millisecond)
	r.SetSessions(1)
	if len(r.Stats()) != 0 {
		t.Fatal("expected empty stats from nil recorder")
	}
}
