package disjoint_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/katalvlaran/kruskalctl/disjoint"
)

const propertySize = 24

// naiveLabels is a reference partition: merging relabels a whole component.
type naiveLabels []int

func newNaive(n int) naiveLabels {
	l := make(naiveLabels, n+1)
	for i := range l {
		l[i] = i
	}
	return l
}

func (l naiveLabels) union(x, y int) {
	from, to := l[y], l[x]
	if from == to {
		return
	}
	for i := range l {
		if l[i] == from {
			l[i] = to
		}
	}
}

// TestSetProperties checks union/find against a naive reference partition.
func TestSetProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	ids := gen.SliceOf(gen.IntRange(1, propertySize))

	properties.Property("union then find agree", prop.ForAll(
		func(xs []int) bool {
			s := disjoint.New(propertySize)
			for i := 0; i+1 < len(xs); i += 2 {
				if _, err := s.Union(xs[i], xs[i+1]); err != nil {
					return false
				}
				a, _ := s.Find(xs[i])
				b, _ := s.Find(xs[i+1])
				if a != b {
					return false
				}
			}
			return true
		},
		ids,
	))

	properties.Property("membership matches reference and find is idempotent", prop.ForAll(
		func(xs []int) bool {
			s := disjoint.New(propertySize)
			ref := newNaive(propertySize)
			for i := 0; i+1 < len(xs); i += 2 {
				_, _ = s.Union(xs[i], xs[i+1])
				ref.union(xs[i], xs[i+1])
			}
			components := make(map[int]struct{})
			for x := 1; x <= propertySize; x++ {
				first, _ := s.Find(x)
				again, _ := s.Find(x)
				if first != again {
					return false
				}
				components[ref[x]] = struct{}{}
				for y := 1; y <= propertySize; y++ {
					got, _ := s.Connected(x, y)
					if got != (ref[x] == ref[y]) {
						return false
					}
				}
			}
			return len(components) == s.Count()
		},
		ids,
	))

	properties.TestingRun(t)
}
