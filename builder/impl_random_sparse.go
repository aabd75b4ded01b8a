// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_random_sparse.go: RandomSparse(n, p): Erdős–Rényi-like cabling.
//
// Contract:
//   • n ≥ 1 (else ErrTooFewSwitches); p ∈ [0,1] (else ErrInvalidProbability).
//   • Requires cfg.rng unless p ∈ {0,1} (else ErrNeedRandSource).
//   • Trials for unordered pairs {i,j}, i asc then j asc with j > i.
//
// Determinism: identical output for a fixed seed thanks to the fixed trial order.
// Complexity: O(n²) trials.

package builder

import "fmt"

const (
	methodRandomSparse      = "RandomSparse"
	minRandomSparseSwitches = 1
	probMin                 = 0.0
	probMax                 = 1.0
)

// RandomSparse returns a Constructor cabling each pair of n switches with probability p.
func RandomSparse(n int, p float64) Constructor {
	return func(f *fabric) error {
		if n < minRandomSparseSwitches {
			return fmt.Errorf("%s: n=%d < min=%d: %w",
				methodRandomSparse, n, minRandomSparseSwitches, ErrTooFewSwitches)
		}
		if p < probMin || p > probMax {
			return fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w",
				methodRandomSparse, p, probMin, probMax, ErrInvalidProbability)
		}
		rng := f.cfg.rng
		if rng == nil && p > probMin && p < probMax {
			return fmt.Errorf("%s: rng is required: %w", methodRandomSparse, ErrNeedRandSource)
		}

		for i := 0; i < n; i++ {
			f.addSwitch(i)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				keep := p == probMax
				if rng != nil && p > probMin && p < probMax {
					keep = rng.Float64() <= p
				}
				if !keep {
					continue
				}
				if err := f.connect(methodRandomSparse, i, j); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
