// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_leaf_spine.go: LeafSpine(spines, leaves): a two-tier Clos fabric.
//
// Contract:
//   • spines ≥ 1 and leaves ≥ 1 (else ErrTooFewSwitches).
//   • Spines take indices 0..spines-1, leaves spines..spines+leaves-1.
//   • Every leaf is cabled to every spine: for each spine s asc, leaf l asc.
//     Spine port k therefore faces leaf k; leaf port s+1 faces spine s.
//
// Complexity: O(spines + leaves) switches + O(spines·leaves) cables.
//
// Determinism: fixed emission order (spine-major).

package builder

import "fmt"

const (
	methodLeafSpine  = "LeafSpine"
	minPartitionSize = 1
)

// LeafSpine returns a Constructor for the complete bipartite spine/leaf fabric.
// With more than one spine every leaf has redundant uplinks, and the spanning
// tree keeps exactly one path between any two leaves.
func LeafSpine(spines, leaves int) Constructor {
	return func(f *fabric) error {
		if spines < minPartitionSize || leaves < minPartitionSize {
			return fmt.Errorf("%s: spines=%d, leaves=%d (each must be ≥ %d): %w",
				methodLeafSpine, spines, leaves, minPartitionSize, ErrTooFewSwitches)
		}
		for s := 0; s < spines; s++ {
			for l := 0; l < leaves; l++ {
				if err := f.connect(methodLeafSpine, s, spines+l); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
