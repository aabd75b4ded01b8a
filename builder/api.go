// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// api.go - public entry points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildFabric(bopts, cons...). Resolves cfg and runs cons in order.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig.
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical fabrics.
//   - Constructors never panic; they return sentinel errors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/kruskalctl/core"
)

// Fabric is a discovery snapshot: switches with their ports and the directed
// link reports between them. It feeds core.Topology.Rebuild directly.
type Fabric struct {
	Switches []core.Switch
	Links    []core.LinkSpec
}

// Cables returns the number of distinct switch pairs connected in f.
func (f Fabric) Cables() int {
	seen := make(map[core.Pair]struct{}, len(f.Links))
	for _, l := range f.Links {
		seen[l.Pair()] = struct{}{}
	}
	return len(seen)
}

// Constructor adds switches and cables to the fabric under construction.
// Constructors validate parameters early, return sentinel errors and keep a
// stable emission order.
type Constructor func(f *fabric) error

// BuildFabric resolves the configuration from bopts and applies all constructors
// in order. Constructors share switch indices, so Cycle(4) followed by Cable(0, 2)
// adds a chord to the ring. Any constructor error is wrapped with
// "BuildFabric: %w" and returned immediately.
//
// Complexity: O(len(bopts)) + Σ cost of each constructor + O(S+P) to materialize.
func BuildFabric(bopts []BuilderOption, cons ...Constructor) (Fabric, error) {
	f := newFabric(newBuilderConfig(bopts...))

	for i, fn := range cons {
		if fn == nil {
			return Fabric{}, fmt.Errorf("BuildFabric: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(f); err != nil {
			return Fabric{}, fmt.Errorf("BuildFabric: %w", err)
		}
	}

	return f.snapshot(), nil
}

// Cable connects switch index i to switch index j.
func Cable(i, j int) Constructor {
	return func(f *fabric) error {
		return f.connect(methodCable, i, j)
	}
}

// Switches adds n isolated switches (indices 0..n-1).
func Switches(n int) Constructor {
	return func(f *fabric) error {
		if n < 1 {
			return fmt.Errorf("%s: n=%d < min=1: %w", methodSwitches, n, ErrTooFewSwitches)
		}
		for i := 0; i < n; i++ {
			f.addSwitch(i)
		}
		return nil
	}
}

// Method tags used in error context.
const (
	methodCable    = "Cable"
	methodSwitches = "Switches"
)
