// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// options.go: functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"
	"net"

	"github.com/katalvlaran/kruskalctl/core"
)

// BuilderOption customizes construction by mutating a builderConfig before use.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the deterministic switch id generator: index -> datapath id.
// Panics on nil.
func WithIDScheme(fn func(int) core.SwitchID) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) {
		c.idFn = fn
	}
}

// WithRand provides an explicit RNG for stochastic builders. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithHostPorts appends k host-facing ports to every switch, numbered after
// its cable ports. Panics if k < 0.
func WithHostPorts(k int) BuilderOption {
	if k < 0 {
		panic("builder: WithHostPorts(k<0)")
	}
	return func(c *builderConfig) {
		c.hostPorts = k
	}
}

// WithOneWayReports reports every cable only as seen from its first endpoint,
// as discovery does before the reverse probe has been received.
func WithOneWayReports() BuilderOption {
	return func(c *builderConfig) {
		c.oneWay = true
	}
}

// WithHWAddrScheme overrides the port hardware address generator. Panics on nil.
func WithHWAddrScheme(fn func(core.SwitchID, core.PortNo) net.HardwareAddr) BuilderOption {
	if fn == nil {
		panic("builder: WithHWAddrScheme(nil)")
	}
	return func(c *builderConfig) {
		c.hwFn = fn
	}
}
