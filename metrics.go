package tiles3d

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "tiles3d"

// Collector exposes a tileset's selection and cache statistics as
// Prometheus metrics.
//
// Example:
//
//	prometheus.MustRegister(tiles3d.NewCollector(ts))
//
// Collect reads the counters of the most recent frame. Gather between
// frames, not while SelectTiles is in flight.
type Collector struct {
	ts *Tileset

	visited        *prometheus.Desc
	selected       *prometheus.Desc
	requested      *prometheus.Desc
	empty          *prometheus.Desc
	culled         *prometheus.Desc
	cacheLen       *prometheus.Desc
	cacheBytes     *prometheus.Desc
	cacheTouches   *prometheus.Desc
	cacheEvictions *prometheus.Desc
}

// NewCollector creates a Collector over a tileset.
func NewCollector(ts *Tileset) *Collector {
	return &Collector{
		ts: ts,
		visited: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "selection", "visited_tiles"),
			"Tiles visited by the most recent selection frame.",
			nil, nil),
		selected: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "selection", "selected_tiles"),
			"Tiles selected for rendering by the most recent frame.",
			nil, nil),
		requested: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "selection", "requested_tiles"),
			"Tiles queued for content loading by the most recent frame.",
			nil, nil),
		empty: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "selection", "empty_tiles"),
			"Structural tiles encountered by the most recent frame.",
			nil, nil),
		culled: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "selection", "culled_with_children_union_tiles"),
			"Tiles culled because no child was visible.",
			nil, nil),
		cacheLen: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "cache", "entries"),
			"Entries tracked by the content cache.",
			nil, nil),
		cacheBytes: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "cache", "bytes"),
			"Resident content bytes accounted by the cache.",
			nil, nil),
		cacheTouches: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "cache", "touches_total"),
			"Total cache touches.",
			nil, nil),
		cacheEvictions: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "cache", "evictions_total"),
			"Total cache evictions.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.visited
	ch <- c.selected
	ch <- c.requested
	ch <- c.empty
	ch <- c.culled
	ch <- c.cacheLen
	ch <- c.cacheBytes
	ch <- c.cacheTouches
	ch <- c.cacheEvictions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.ts.Statistics()
	ch <- prometheus.MustNewConstMetric(c.visited, prometheus.GaugeValue, float64(stats.Visited))
	ch <- prometheus.MustNewConstMetric(c.selected, prometheus.GaugeValue, float64(stats.Selected))
	ch <- prometheus.MustNewConstMetric(c.requested, prometheus.GaugeValue, float64(stats.Requested))
	ch <- prometheus.MustNewConstMetric(c.empty, prometheus.GaugeValue, float64(stats.Empty))
	ch <- prometheus.MustNewConstMetric(c.culled, prometheus.GaugeValue, float64(stats.CulledWithChildrenUnion))

	cacheStats := c.ts.CacheStats()
	ch <- prometheus.MustNewConstMetric(c.cacheLen, prometheus.GaugeValue, float64(cacheStats.Len))
	ch <- prometheus.MustNewConstMetric(c.cacheBytes, prometheus.GaugeValue, float64(cacheStats.Size))
	ch <- prometheus.MustNewConstMetric(c.cacheTouches, prometheus.CounterValue, float64(cacheStats.Touches))
	ch <- prometheus.MustNewConstMetric(c.cacheEvictions, prometheus.CounterValue, float64(cacheStats.Evictions))
}
