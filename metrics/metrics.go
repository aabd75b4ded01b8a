package metrics

import (
	"time"
)

// RecordRebuild records a topology rebuild attempt and, on success, the new sizes.
func (r *Registry) RecordRebuild(generation uint64, switches, links int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.TopologyRebuilds.WithLabelValues("error").Inc()
		return
	}
	r.TopologyRebuilds.WithLabelValues("ok").Inc()
	r.TopologyGeneration.Set(float64(generation))
	r.TopologySwitches.Set(float64(switches))
	r.TopologyLinks.Set(float64(links))
}

// RecordMST records one spanning tree computation.
func (r *Registry) RecordMST(method string, edges int, weight int64, duration time.Duration, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.MSTComputations.WithLabelValues(method, "error").Inc()
		return
	}
	r.MSTComputations.WithLabelValues(method, "ok").Inc()
	r.MSTDuration.Observe(duration.Seconds())
	r.MSTTreeEdges.Set(float64(edges))
	r.MSTTreeWeight.Set(float64(weight))
}

// RecordEnforcement counts one port-down action outcome.
func (r *Registry) RecordEnforcement(outcome string) {
	if r == nil {
		return
	}
	r.EnforcerActions.WithLabelValues(outcome).Inc()
}

// RecordPacketIn counts one packet-in by decision and updates the MAC table size.
func (r *Registry) RecordPacketIn(decision string, macEntries int) {
	if r == nil {
		return
	}
	r.PacketIns.WithLabelValues(decision).Inc()
	r.MACTableEntries.Set(float64(macEntries))
}

// SetMACEntries sets the learned MAC entry gauge.
func (r *Registry) SetMACEntries(n int) {
	if r == nil {
		return
	}
	r.MACTableEntries.Set(float64(n))
}

// RecordDiscoveryReload counts a topology source reload.
func (r *Registry) RecordDiscoveryReload(err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.DiscoveryReloads.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
