package builder_test

import (
	"fmt"

	"github.com/katalvlaran/kruskalctl/builder"
)

// ExampleBuildFabric builds a ring of four switches with one host port each.
func ExampleBuildFabric() {
	f, err := builder.BuildFabric(
		[]builder.BuilderOption{builder.WithHostPorts(1)},
		builder.Cycle(4),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("switches:", len(f.Switches), "cables:", f.Cables(), "reports:", len(f.Links))
	fmt.Println("ports on switch 1:", len(f.Switches[0].Ports))
	// Output:
	// switches: 4 cables: 4 reports: 8
	// ports on switch 1: 3
}
