// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_star.go: Star(n) and Wheel(n).
//
// Contract:
//   • Star: n ≥ 2. Index 0 is the hub; leaves 1..n-1 are cabled to it in order.
//   • Wheel: n ≥ 4. Star(n) plus a rim cycle over leaves 1..n-1.
//
// Complexity: Star O(n) cables; Wheel O(2n) cables.

package builder

import "fmt"

const (
	methodStar    = "Star"
	methodWheel   = "Wheel"
	minStarNodes  = 2
	minWheelNodes = 4
)

// Star returns a Constructor cabling leaves 1..n-1 to hub 0.
func Star(n int) Constructor {
	return func(f *fabric) error {
		if n < minStarNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarNodes, ErrTooFewSwitches)
		}
		for i := 1; i < n; i++ {
			if err := f.connect(methodStar, 0, i); err != nil {
				return err
			}
		}
		return nil
	}
}

// Wheel returns a Constructor for a hub (index 0) with spokes to a rim ring 1..n-1.
func Wheel(n int) Constructor {
	return func(f *fabric) error {
		if n < minWheelNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodWheel, n, minWheelNodes, ErrTooFewSwitches)
		}
		// spokes
		for i := 1; i < n; i++ {
			if err := f.connect(methodWheel, 0, i); err != nil {
				return err
			}
		}
		// rim
		rim := n - 1
		for k := 0; k < rim; k++ {
			if err := f.connect(methodWheel, 1+k, 1+(k+1)%rim); err != nil {
				return err
			}
		}
		return nil
	}
}
