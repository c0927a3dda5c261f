package scheduler

import "github.com/prometheus/client_golang/prometheus"

// Metrics
var (
	liveChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "linktree_live_checks_total", Help: "Live status checks by result"},
		[]string{"result"},
	)
	liveGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "linktree_live", Help: "1 while the streamer is live"},
	)
	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "linktree_live_transitions_total", Help: "Live/offline transitions"},
		[]string{"to"},
	)
	rotations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "linktree_fallback_rotations_total", Help: "Highlight clip rotations"},
	)
	probeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linktree_live_probe_duration_seconds",
			Help:    "Live provider probe time",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(liveChecks, liveGauge, transitions, rotations, probeDuration)
}
