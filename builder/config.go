// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • idFn      = index+1          (switch ids 1..n, the range the disjoint set accepts)
//   • rng       = nil              (pure/deterministic unless seeded)
//   • hostPorts = 0                (only cable ports)
//   • oneWay    = false            (every cable reported in both directions)
//   • hwFn      = DefaultHWAddr

package builder

import (
	"math/rand"
	"net"

	"github.com/katalvlaran/kruskalctl/core"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	// Switch ID strategy: index -> datapath id.
	idFn func(int) core.SwitchID
	// RNG for stochastic choices; nil means "no randomness".
	rng *rand.Rand
	// Extra host-facing ports appended to every switch after its cable ports.
	hostPorts int
	// Report each cable only from its first endpoint.
	oneWay bool
	// Hardware address of (switch, port).
	hwFn func(core.SwitchID, core.PortNo) net.HardwareAddr
}

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order (later overrides earlier).
// Complexity: O(len(opts)) time, O(1) space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn: oneBasedID,
		hwFn: DefaultHWAddr,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// oneBasedID maps index i to datapath id i+1.
func oneBasedID(i int) core.SwitchID {
	return core.SwitchID(i + 1)
}

// DefaultHWAddr returns the locally administered address 02:ii:ii:ii:pp:pp for
// switch id (low 24 bits) and port (low 16 bits).
func DefaultHWAddr(id core.SwitchID, port core.PortNo) net.HardwareAddr {
	return net.HardwareAddr{
		0x02,
		byte(id >> 16), byte(id >> 8), byte(id),
		byte(port >> 8), byte(port),
	}
}
