package linkcheck

import (
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	probesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexiplay_link_probes_total",
		Help: "Link probes by outcome",
	}, []string{"outcome"})

	rowsUpdatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexiplay_link_rows_updated_total",
		Help: "Link rows stamped by a sweep",
	}, []string{"table"})

	writeFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexiplay_link_write_failures_total",
		Help: "Link rows whose status update failed",
	}, []string{"table"})

	expiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nexiplay_links_expired_total",
		Help: "Provider links that flipped to EXPIRED",
	})

	sweepDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nexiplay_sweep_duration_seconds",
		Help:    "Duration of link health sweeps",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
	})
)

func init() {
	prometheus.MustRegister(probesTotal)
	prometheus.MustRegister(rowsUpdatedTotal)
	prometheus.MustRegister(writeFailuresTotal)
	prometheus.MustRegister(expiredTotal)
	prometheus.MustRegister(sweepDurationSeconds)
}

func outcomeLabel(r ProbeResult) string {
	if r.Err != nil {
		return "error"
	}
	if r.State == model.LinkExpired {
		return "expired"
	}
	return "active"
}
