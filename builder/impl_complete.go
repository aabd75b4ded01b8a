// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_complete.go: Complete(n): a full mesh.
//
// Contract:
//   • n ≥ 1 (else ErrTooFewSwitches). n = 1 yields a single switch without cables.
//   • Cables for i asc, then j asc with j > i.
//
// Complexity: O(n²) cables.

package builder

import "fmt"

const (
	methodComplete   = "Complete"
	minCompleteNodes = 1
)

// Complete returns a Constructor cabling every pair of n switches.
func Complete(n int) Constructor {
	return func(f *fabric) error {
		if n < minCompleteNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodComplete, n, minCompleteNodes, ErrTooFewSwitches)
		}
		f.addSwitch(0)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if err := f.connect(methodComplete, i, j); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
