// Package metrics exposes engine counters to Prometheus and keeps a rolling
// latency window for the stats endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records engine events. A nil *Recorder records nothing.
type Recorder struct {
	drops     *prometheus.CounterVec
	cleanups  *prometheus.CounterVec
	columnOps *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	sessions  prometheus.Gauge
	stats     *OpStats
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer, window time.Duration) *Recorder {
	r := &Recorder{
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docstruct_drops_total",
			Help: "Drops handled, by synthesis case and outcome.",
		}, []string{"case", "result"}),
		cleanups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docstruct_cleanup_actions_total",
			Help: "Column container cleanup actions applied.",
		}, []string{"kind"}),
		columnOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docstruct_column_ops_total",
			Help: "Column add, remove and resize requests, by outcome.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docstruct_op_duration_seconds",
			Help:    "Engine operation latency.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"op"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docstruct_sessions",
			Help: "Open document sessions.",
		}),
		stats: NewOpStats(window),
	}
	reg.MustRegister(r.drops, r.cleanups, r.columnOps, r.duration, r.sessions)
	return r
}

func outcome(ok bool) string {
	if ok {
		return "applied"
	}
	return "rejected"
}

func (r *Recorder) Drop(dropCase string, applied bool) {
	if r == nil {
		return
	}
	if dropCase == "" {
		dropCase = "none"
	}
	r.drops.WithLabelValues(dropCase, outcome(applied)).Inc()
}

func (r *Recorder) Cleanup(kind string) {
	if r == nil {
		return
	}
	r.cleanups.WithLabelValues(kind).Inc()
}

func (r *Recorder) ColumnOp(op string, applied bool) {
	if r == nil {
		return
	}
	r.columnOps.WithLabelValues(op, outcome(applied)).Inc()
}

// Observe records the latency of one engine operation.
func (r *Recorder) Observe(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(op).Observe(d.Seconds())
	r.stats.Record(op, d)
}

func (r *Recorder) SetSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

// Stats returns the rolling latency snapshot per operation.
func (r *Recorder) Stats() map[string]StatsSnapshot {
	if r == nil {
		return map[string]StatsSnapshot{}
	}
	return r.stats.Snapshot()
}
