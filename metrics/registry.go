// Package metrics holds the Prometheus collectors of the controller.
//
// Every Record*/Set* method is safe on a nil *Registry so components can run
// without metrics wired in tests.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for enforcement actions.
const (
	OutcomeSent      = "sent"
	OutcomeNoSession = "skipped_no_session"
	OutcomeNoPort    = "skipped_no_port"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// Registry holds all metrics for the controller.
type Registry struct {
	// Topology
	TopologyGeneration prometheus.Gauge
	TopologySwitches   prometheus.Gauge
	TopologyLinks      prometheus.Gauge
	TopologyRebuilds   *prometheus.CounterVec

	// MST
	MSTComputations *prometheus.CounterVec
	MSTDuration     prometheus.Histogram
	MSTTreeEdges    prometheus.Gauge
	MSTTreeWeight   prometheus.Gauge

	// Enforcement
	EnforcerActions *prometheus.CounterVec

	// Forwarding
	PacketIns       *prometheus.CounterVec
	MACTableEntries prometheus.Gauge

	// Discovery
	DiscoveryReloads *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry, creating it on first use.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initTopologyMetrics()
	r.initMSTMetrics()
	r.initForwardingMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
