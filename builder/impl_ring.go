// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_ring.go: Cycle(n) and Path(n): switches cabled in a ring or a line.
//
// Contract:
//   • Cycle: n ≥ 3; Path: n ≥ 2 (else ErrTooFewSwitches).
//   • Cables in stable order i–i+1 for i = 0..n-2; Cycle closes with n-1 to 0.
//   • Ports are numbered per switch in cabling order.
//
// Complexity: O(n) switches + O(n) cables.

package builder

import "fmt"

const (
	methodCycle   = "Cycle"
	methodPath    = "Path"
	minCycleNodes = 3
	minPathNodes  = 2
)

// Cycle returns a Constructor that cables n switches in a ring.
// A ring has exactly one redundant cable, so its spanning tree blocks one link.
func Cycle(n int) Constructor {
	return func(f *fabric) error {
		if n < minCycleNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewSwitches)
		}
		for i := 0; i < n; i++ {
			if err := f.connect(methodCycle, i, (i+1)%n); err != nil {
				return err
			}
		}
		return nil
	}
}

// Path returns a Constructor that cables n switches in a line (already a tree).
func Path(n int) Constructor {
	return func(f *fabric) error {
		if n < minPathNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathNodes, ErrTooFewSwitches)
		}
		for i := 0; i+1 < n; i++ {
			if err := f.connect(methodPath, i, i+1); err != nil {
				return err
			}
		}
		return nil
	}
}
