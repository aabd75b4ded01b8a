// SPDX-License-Identifier: MIT
// Package: kruskalctl/builder
//
// impl_random_regular.go: RandomRegular(n, d), every switch cabled to exactly d peers.
//
// Contract:
//   • n ≥ 1; 0 ≤ d < n; n·d even (else ErrTooFewSwitches).
//   • Requires cfg.rng (else ErrNeedRandSource).
//   • Stub matching: each index repeated d times, shuffled, paired consecutively.
//     A pairing with a self-cable or a repeated pair is rejected and reshuffled,
//     up to maxStubMatchingAttempts; then ErrConstructFailed.
//   • The fabric is only touched once a pairing is accepted.
//
// Determinism: same seed ⇒ same shuffles ⇒ same fabric.
// Complexity: O(n·d) per attempt.

package builder

import "fmt"

const (
	methodRandomRegular     = "RandomRegular"
	minRRSwitches           = 1
	maxStubMatchingAttempts = 64
)

// RandomRegular returns a Constructor cabling n switches into a random d-regular fabric.
func RandomRegular(n, d int) Constructor {
	return func(f *fabric) error {
		if n < minRRSwitches {
			return fmt.Errorf("%s: n=%d < min=%d: %w",
				methodRandomRegular, n, minRRSwitches, ErrTooFewSwitches)
		}
		if d < 0 || d >= n {
			return fmt.Errorf("%s: degree must be in [0,%d), got %d: %w",
				methodRandomRegular, n, d, ErrTooFewSwitches)
		}
		if (n*d)%2 != 0 {
			return fmt.Errorf("%s: n*d must be even (n=%d, d=%d): %w",
				methodRandomRegular, n, d, ErrTooFewSwitches)
		}
		rng := f.cfg.rng
		if rng == nil {
			return fmt.Errorf("%s: rng is required: %w", methodRandomRegular, ErrNeedRandSource)
		}

		for i := 0; i < n; i++ {
			f.addSwitch(i)
		}
		stubs := make([]int, 0, n*d)
		for i := 0; i < n; i++ {
			for k := 0; k < d; k++ {
				stubs = append(stubs, i)
			}
		}
		if len(stubs) == 0 {
			return nil
		}

		for attempt := 1; attempt <= maxStubMatchingAttempts; attempt++ {
			rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
			if !simplePairing(stubs) {
				continue
			}
			for i := 0; i < len(stubs); i += 2 {
				if err := f.connect(methodRandomRegular, stubs[i], stubs[i+1]); err != nil {
					return err
				}
			}
			return nil
		}

		return fmt.Errorf("%s: no simple pairing after %d attempts: %w",
			methodRandomRegular, maxStubMatchingAttempts, ErrConstructFailed)
	}
}

// simplePairing reports whether consecutive stub pairs have no self-cable and
// no repeated switch pair.
func simplePairing(stubs []int) bool {
	seen := make(map[[2]int]struct{}, len(stubs)/2)
	for i := 0; i < len(stubs); i += 2 {
		u, v := stubs[i], stubs[i+1]
		if u == v {
			return false
		}
		if u > v {
			u, v = v, u
		}
		key := [2]int{u, v}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
