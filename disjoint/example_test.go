package disjoint_test

import (
	"fmt"

	"github.com/katalvlaran/kruskalctl/disjoint"
)

// ExampleSet_Union joins switches 1-2 and 3-4, then bridges the two pairs.
func ExampleSet_Union() {
	s := disjoint.New(4)
	_, _ = s.Union(1, 2)
	_, _ = s.Union(3, 4)
	fmt.Println("components:", s.Count())

	merged, _ := s.Union(2, 3)
	same, _ := s.Connected(1, 4)
	fmt.Println("merged:", merged, "connected:", same, "components:", s.Count())
	// Output:
	// components: 2
	// merged: true connected: true components: 1
}
