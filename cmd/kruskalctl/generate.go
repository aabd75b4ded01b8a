package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kruskalctl/builder"
	"github.com/katalvlaran/kruskalctl/discovery"
)

// Fabric shapes understood by generate.
const (
	shapeComplete  = "complete"
	shapeRing      = "ring"
	shapePath      = "path"
	shapeStar      = "star"
	shapeWheel     = "wheel"
	shapeGrid      = "grid"
	shapeLeafSpine = "leaf-spine"
	shapeRandom    = "random"
	shapeRegular   = "regular"
)

type generateFlags struct {
	shape     string
	n         int
	rows      int
	cols      int
	spines    int
	leaves    int
	p         float64
	degree    int
	seed      int64
	hostPorts int
	oneWay    bool
	output    string
}

func (f generateFlags) constructor() (builder.Constructor, error) {
	switch f.shape {
	case shapeComplete:
		return builder.Complete(f.n), nil
	case shapeRing:
		return builder.Cycle(f.n), nil
	case shapePath:
		return builder.Path(f.n), nil
	case shapeStar:
		return builder.Star(f.n), nil
	case shapeWheel:
		return builder.Wheel(f.n), nil
	case shapeGrid:
		return builder.Grid(f.rows, f.cols), nil
	case shapeLeafSpine:
		return builder.LeafSpine(f.spines, f.leaves), nil
	case shapeRandom:
		return builder.RandomSparse(f.n, f.p), nil
	case shapeRegular:
		return builder.RandomRegular(f.n, f.degree), nil
	}
	return nil, errors.Errorf("unknown shape %q", f.shape)
}

func generateTopology(f generateFlags) ([]byte, error) {
	cons, err := f.constructor()
	if err != nil {
		return nil, err
	}
	opts := []builder.BuilderOption{builder.WithSeed(f.seed), builder.WithHostPorts(f.hostPorts)}
	if f.oneWay {
		opts = append(opts, builder.WithOneWayReports())
	}
	fabric, err := builder.BuildFabric(opts, cons)
	if err != nil {
		return nil, errors.Wrap(err, "building fabric")
	}
	return discovery.Marshal(discovery.Snapshot{Switches: fabric.Switches, Links: fabric.Links})
}

func newGenerate(pather CommandPather) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a topology file for a synthetic fabric",
		Example: fmt.Sprintf(`  %[1]s generate --shape complete -n 4
  %[1]s generate --shape leaf-spine --spines 2 --leaves 6 -o fabric.yaml
  %[1]s generate --shape random -n 12 -p 0.3 --seed 42
  %[1]s generate --shape regular -n 10 --degree 3`, pather.CommandPath()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.hostPorts < 0 {
				return errors.New("--host-ports must not be negative")
			}
			data, err := generateTopology(flags)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			if flags.output == "" || flags.output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return errors.Wrap(os.WriteFile(flags.output, data, 0o644), "writing topology file")
		},
	}

	cmd.Flags().StringVar(&flags.shape, "shape", shapeComplete,
		"fabric shape (complete, ring, path, star, wheel, grid, leaf-spine, random, regular)")
	cmd.Flags().IntVarP(&flags.n, "switches", "n", 4, "number of switches")
	cmd.Flags().IntVar(&flags.rows, "rows", 2, "grid rows")
	cmd.Flags().IntVar(&flags.cols, "cols", 2, "grid columns")
	cmd.Flags().IntVar(&flags.spines, "spines", 2, "leaf-spine spine switches")
	cmd.Flags().IntVar(&flags.leaves, "leaves", 4, "leaf-spine leaf switches")
	cmd.Flags().Float64VarP(&flags.p, "probability", "p", 0.5, "random cabling probability")
	cmd.Flags().IntVar(&flags.degree, "degree", 3, "cables per switch of the regular shape")
	cmd.Flags().Int64Var(&flags.seed, "seed", 1, "seed of the random shape")
	cmd.Flags().IntVar(&flags.hostPorts, "host-ports", 1, "host-facing ports per switch")
	cmd.Flags().BoolVar(&flags.oneWay, "one-way", false, "report each cable from one side only")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")

	return cmd
}
