package db

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var conn_stats = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "conn",
	Help: "Stats about number of db connections",
	// Track quantiles within small error
	Objectives: map[float64]float64{
		0.25: 0.05,
		0.50: 0.05,
		0.75: 0.05,
		0.90: 0.05,
		0.95: 0.02,
		0.99: 0.01,
	},
}, []string{"garage", "metric"})

var wait_stats = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "conn_wait",
	Help: "Stats about waiting on db connections",
}, []string{"garage", "metric"})

var close_stats = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "conn_closed",
	Help: "Stats about closed db connections",
}, []string{"garage", "metric"})

// RecordConnectionStats exports pool stats of the connection, labeled with
// the owning garage. Call periodically.
func RecordConnectionStats(c Connection) {
	stats := c.DB.Stats()
	garage := fmt.Sprintf("%d", c.scope.ID())

	conn_stats.WithLabelValues(garage, "num_open").Observe(float64(stats.OpenConnections))
	conn_stats.WithLabelValues(garage, "num_in_use").Observe(float64(stats.InUse))
	conn_stats.WithLabelValues(garage, "num_idle").Observe(float64(stats.Idle))

	// Stats about waiting on connections and closed connections are exported
	// as counters from the sqlx library itself. We simply record these
	// as gauges and can downstream analyze deltas to see rate of change.
	wait_stats.WithLabelValues(garage, "duration_ms").Set(float64(stats.WaitDuration.Milliseconds()))
	wait_stats.WithLabelValues(garage, "count").Set(float64(stats.WaitCount))

	close_stats.WithLabelValues(garage, "max_idle_closed").Set(float64(stats.MaxIdleClosed))
	close_stats.WithLabelValues(garage, "max_idle_time_closed").Set(float64(stats.MaxIdleTimeClosed))
	close_stats.WithLabelValues(garage, "max_lifetime_closed").Set(float64(stats.MaxLifetimeClosed))
}
