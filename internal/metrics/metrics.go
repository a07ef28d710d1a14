// Package metrics provides Prometheus metrics for the film catalogue service.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks served requests by route pattern and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filmdb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "filmdb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// RateLimitedTotal counts requests rejected by the limiter
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "filmdb",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// PoolCollector exports pgxpool statistics on every scrape.
type PoolCollector struct {
	stat func() *pgxpool.Stat

	totalConns    *prometheus.Desc
	idleConns     *prometheus.Desc
	acquiredConns *prometheus.Desc
	maxConns      *prometheus.Desc
	acquireCount  *prometheus.Desc
	acquireWait   *prometheus.Desc
}

// NewPoolCollector builds a collector reading from stat. A nil Stat skips the scrape.
func NewPoolCollector(stat func() *pgxpool.Stat) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("filmdb", "db_pool", name), help, nil, nil)
	}
	return &PoolCollector{
		stat:          stat,
		totalConns:    desc("total_conns", "Total connections currently in the pool"),
		idleConns:     desc("idle_conns", "Idle connections in the pool"),
		acquiredConns: desc("acquired_conns", "Connections currently checked out"),
		maxConns:      desc("max_conns", "Maximum size of the pool"),
		acquireCount:  desc("acquire_total", "Cumulative successful acquires"),
		acquireWait:   desc("acquire_wait_seconds_total", "Cumulative time spent waiting for a connection"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.acquiredConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.acquireWait
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.stat()
	if st == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(st.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(st.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(st.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(st.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireWait, prometheus.CounterValue, st.AcquireDuration().Seconds())
}
