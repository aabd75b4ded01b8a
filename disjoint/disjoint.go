package disjoint

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates an identifier outside the range the Set was created for.
var ErrOutOfRange = errors.New("disjoint: identifier out of range")

// Set is a disjoint-set forest over the identifiers 1..n.
//
// parent[i] == i marks i as the representative of its component. Slot 0 is a
// sentinel kept so identifiers index the slice directly; it is not addressable.
type Set struct {
	parent []int
	count  int
}

// New creates a Set covering identifiers 1..n, each in its own component.
// A negative n is treated as zero.
// Complexity: O(n).
func New(n int) *Set {
	if n < 0 {
		n = 0
	}
	parent := make([]int, n+1)
	for i := range parent {
		parent[i] = i
	}

	return &Set{parent: parent, count: n}
}

// Len returns n, the largest identifier the Set accepts.
func (s *Set) Len() int { return len(s.parent) - 1 }

// Count returns the number of disjoint components among 1..n.
func (s *Set) Count() int { return s.count }

// Find returns the representative of x's component and compresses the path
// from x to it.
//
// Steps:
//  1. Walk parent pointers from x until a self-parented slot (the root).
//  2. Walk the same path again, pointing every slot directly at the root.
//
// Complexity: O(α(n)) amortized.
func (s *Set) Find(x int) (int, error) {
	if err := s.check(x); err != nil {
		return 0, err
	}

	// 1. Locate the root.
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}

	// 2. Relink the path.
	for x != root {
		next := s.parent[x]
		s.parent[x] = root
		x = next
	}

	return root, nil
}

// Union merges the components containing x and y. It reports whether a merge
// happened; false means x and y were already connected.
func (s *Set) Union(x, y int) (bool, error) {
	rx, err := s.Find(x)
	if err != nil {
		return false, err
	}
	ry, err := s.Find(y)
	if err != nil {
		return false, err
	}
	if rx == ry {
		return false, nil
	}

	s.parent[ry] = rx
	s.count--

	return true, nil
}

// Connected reports whether x and y belong to the same component.
func (s *Set) Connected(x, y int) (bool, error) {
	rx, err := s.Find(x)
	if err != nil {
		return false, err
	}
	ry, err := s.Find(y)
	if err != nil {
		return false, err
	}

	return rx == ry, nil
}

func (s *Set) check(x int) error {
	if x < 1 || x >= len(s.parent) {
		return fmt.Errorf("%w: %d not in [1,%d]", ErrOutOfRange, x, s.Len())
	}

	return nil
}
