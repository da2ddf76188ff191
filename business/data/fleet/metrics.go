package fleet

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes recorded by Metrics
const (
	outcomeCached = "cached"
	outcomeFailed = "failed"
)

// Metrics exposes counters and gauges describing fleet cache refreshes
type Metrics struct {
	Refreshes      *prometheus.CounterVec // outcome label: network|file|failed|cached
	SkippedReports prometheus.Counter
	Buses          prometheus.Gauge
	LastRefresh    prometheus.Gauge
}

// NewMetrics creates Metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "straeto_fleet_refreshes_total",
			Help: "Fleet cache refresh attempts by outcome.",
		}, []string{"outcome"}),
		SkippedReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "straeto_fleet_skipped_reports_total",
			Help: "Malformed vehicle reports skipped while refreshing.",
		}),
		Buses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "straeto_fleet_buses",
			Help: "Buses in the fleet cache.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "straeto_fleet_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful fleet refresh.",
		}),
	}
	reg.MustRegister(m.Refreshes, m.SkippedReports, m.Buses, m.LastRefresh)
	return m
}

func (m *Metrics) refreshed(outcome string, buses int, skipped int, unixSeconds int64) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
	m.SkippedReports.Add(float64(skipped))
	m.Buses.Set(float64(buses))
	m.LastRefresh.Set(float64(unixSeconds))
}

func (m *Metrics) notRefreshed(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}
