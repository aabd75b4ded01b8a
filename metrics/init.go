package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kruskalctl"

func (r *Registry) initTopologyMetrics() {
	r.TopologyGeneration = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_generation",
			Help:      "Current topology generation number",
		},
	)

	r.TopologySwitches = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_switches",
			Help:      "Number of switches in the current generation",
		},
	)

	r.TopologyLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_links",
			Help:      "Number of directed links in the current generation",
		},
	)

	r.TopologyRebuilds = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_rebuilds_total",
			Help:      "Total number of topology rebuilds",
		},
		[]string{"status"},
	)

	r.DiscoveryReloads = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_reloads_total",
			Help:      "Total number of topology source reloads",
		},
		[]string{"status"},
	)
}

func (r *Registry) initMSTMetrics() {
	r.MSTComputations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mst_computations_total",
			Help:      "Total number of spanning tree computations",
		},
		[]string{"method", "status"},
	)

	r.MSTDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mst_duration_seconds",
			Help:      "Spanning tree computation latency in seconds",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		},
	)

	r.MSTTreeEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mst_tree_edges",
			Help:      "Number of edges in the most recent spanning tree",
		},
	)

	r.MSTTreeWeight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mst_tree_weight",
			Help:      "Total weight of the most recent spanning tree",
		},
	)

	r.EnforcerActions = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enforcer_actions_total",
			Help:      "Port-down actions by outcome",
		},
		[]string{"outcome"},
	)
}

func (r *Registry) initForwardingMetrics() {
	r.PacketIns = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packet_in_total",
			Help:      "Packet-in events by forwarding decision",
		},
		[]string{"decision"},
	)

	r.MACTableEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mac_table_entries",
			Help:      "Number of learned (switch, MAC) entries",
		},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
}
