// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables (package-level) are exposed.
//   • Callers use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context with `%w`.
//   • Constructors never panic; validation panics are confined to option
//     constructors (WithX...).

package builder

import "errors"

// ErrTooFewSwitches indicates that a size parameter (n, rows, cols, spines,
// leaves) is smaller than the constructor's minimum.
// Usage: if errors.Is(err, ErrTooFewSwitches) { /* report invalid size */ }.
var ErrTooFewSwitches = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside the closed interval [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor requires an RNG
// (WithSeed/WithRand must be set).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a construction that cannot be carried out:
// a nil constructor, a cable from a switch to itself, or a negative index.
var ErrConstructFailed = errors.New("builder: construction failed")
