// Package weight provides the link-weight sources a topology draws from when it
// first sees a switch pair.
//
// A Provider is an injected dependency of the topology: production wires a
// seeded Uniform provider over the configured range, tests wire Sequence or
// Constant providers to make every rebuild reproducible.
//
// Concurrency:
//   - All providers in this package are safe for concurrent use.
//   - *rand.Rand is NOT goroutine-safe, so Uniform guards its source with a mutex.
package weight

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Default weight range used when the configuration does not override it.
const (
	DefaultMin int64 = 1
	DefaultMax int64 = 10
)

// Provider yields positive link weights.
type Provider interface {
	// Next returns the next weight. Implementations must return values >= 1.
	Next() int64
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func() int64

// Next calls f.
func (f ProviderFunc) Next() int64 { return f() }

// NewRand returns a *rand.Rand for the given seed.
// Policy: seed==0 ⇒ seeded from the wall clock (production default);
// any other value is used verbatim so runs are reproducible.
//
// Complexity: O(1).
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

type uniform struct {
	mu       sync.Mutex
	rng      *rand.Rand
	min, max int64
}

// Uniform returns a Provider sampling integers uniformly in [min, max] inclusive.
// Panics if min < 1 or max < min (option-constructor misuse).
// A nil rng is replaced by NewRand(0).
// Complexity: O(1) per draw.
func Uniform(min, max int64, rng *rand.Rand) Provider {
	if min < 1 || max < min {
		panic(fmt.Sprintf("weight.Uniform: require 1 ≤ min ≤ max, got min=%d, max=%d", min, max))
	}
	if rng == nil {
		rng = NewRand(0)
	}

	return &uniform{rng: rng, min: min, max: max}
}

func (u *uniform) Next() int64 {
	if u.min == u.max {
		return u.min
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.min + u.rng.Int63n(u.max-u.min+1)
}

// Constant returns a Provider that always yields w.
// Panics if w < 1.
func Constant(w int64) Provider {
	if w < 1 {
		panic(fmt.Sprintf("weight.Constant: weight must be ≥ 1, got %d", w))
	}

	return ProviderFunc(func() int64 { return w })
}

type sequence struct {
	mu   sync.Mutex
	ws   []int64
	next int
}

// Sequence returns a Provider that yields ws in order and wraps around at the end.
// Panics if ws is empty or contains a value < 1.
func Sequence(ws ...int64) Provider {
	if len(ws) == 0 {
		panic("weight.Sequence: at least one weight is required")
	}
	for _, w := range ws {
		if w < 1 {
			panic(fmt.Sprintf("weight.Sequence: weight must be ≥ 1, got %d", w))
		}
	}
	cp := make([]int64, len(ws))
	copy(cp, ws)

	return &sequence{ws: cp}
}

func (s *sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.ws[s.next]
	s.next = (s.next + 1) % len(s.ws)

	return w
}
