// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_grid.go: Grid(rows, cols): an orthogonal 4-neighbour mesh.
//
// Contract:
//   • rows ≥ 1 and cols ≥ 1 (else ErrTooFewSwitches).
//   • Switch (r,c) has index r*cols + c (row-major).
//   • For each (r,c) in row-major order, cable Right then Bottom if present.
//
// Complexity: O(rows*cols) switches and cables.

package builder

import "fmt"

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor for a rows×cols grid.
func Grid(rows, cols int) Constructor {
	return func(f *fabric) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewSwitches)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				u := r*cols + c
				f.addSwitch(u)
				if c+1 < cols {
					if err := f.connect(methodGrid, u, u+1); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := f.connect(methodGrid, u, u+cols); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
}
