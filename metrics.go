package websession

import "github.com/prometheus/client_golang/prometheus"

var (
	liveSessionsDesc = prometheus.NewDesc(
		"websession_live_sessions",
		"Current number of unexpired session records in the store",
		nil, nil,
	)
	expiredSessionsDesc = prometheus.NewDesc(
		"websession_expired_sessions",
		"Current number of expired session records awaiting cleanup",
		nil, nil,
	)
)

// Collector exposes store occupancy as prometheus gauges. It works with any
// store implementing StatsProvider; register it with the application's
// prometheus registry:
//
//	prometheus.MustRegister(websession.NewCollector(manager.Store()))
//
// Stores without stats support yield a nil Collector, which is safe to skip.
type Collector struct {
	stats StatsProvider
}

// NewCollector creates a collector over the given store. It returns nil if
// the store cannot report stats.
func NewCollector(store Store) *Collector {
	stats, ok := store.(StatsProvider)
	if !ok {
		return nil
	}
	return &Collector{stats: stats}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- liveSessionsDesc
	ch <- expiredSessionsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	live, expired := c.stats.Stats()
	ch <- prometheus.MustNewConstMetric(liveSessionsDesc, prometheus.GaugeValue, float64(live))
	ch <- prometheus.MustNewConstMetric(expiredSessionsDesc, prometheus.GaugeValue, float64(expired))
}
