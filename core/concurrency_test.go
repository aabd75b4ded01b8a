// Package core_test verifies that readers never observe a half-applied rebuild.
package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/weight"
)

// TestConcurrentRebuildAndRead alternates two topologies while readers check
// that every edge list they see belongs entirely to one of them.
func TestConcurrentRebuildAndRead(t *testing.T) {
	topo := core.NewTopology(core.WithWeightProvider(weight.Constant(1)))
	triSwitches, triLinks := triangle()
	pairSwitches, pairLinks := []core.Switch{sw(S1, 1), sw(S2, 1)}, both(S1, 1, S2, 1)

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	errs := make(chan error, rounds)
	bad := make(chan int, rounds)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if i%2 == 0 {
				errs <- topo.Rebuild(triSwitches, triLinks)
			} else {
				errs <- topo.Rebuild(pairSwitches, pairLinks)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if n := len(topo.Edges()); n != 0 && n != 2 && n != 6 {
				bad <- n
			}
		}
	}()
	wg.Wait()
	close(errs)
	close(bad)

	for err := range errs {
		require.NoError(t, err)
	}
	for n := range bad {
		t.Errorf("observed torn edge list of length %d", n)
	}
}
