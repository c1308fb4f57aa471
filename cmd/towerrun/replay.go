package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tower-run/internal/replay"
	"github.com/vovakirdan/tower-run/internal/track"
)

var replayCmd = &cobra.Command{
	Use:   "replay <dir>",
	Short: "Summarize a recorded track",
	Long: `Read a bundle written by 'towerrun simulate --record' and print what
it contains. The argument may be the bundle directory or its manifest.json.

Examples:
  towerrun replay ./tracks/run-42-20260101T120000Z`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	bundle, err := replay.Load(args[0])
	if err != nil {
		fail("%v", err)
	}
	sum := replay.Summarize(bundle)
	m := bundle.Manifest

	fmt.Printf("Driver:       %s\n", m.Driver)
	fmt.Printf("Seed:         %d\n", m.Seed)
	fmt.Printf("Recorded:     %s\n", m.CreatedAt)
	fmt.Printf("Segments:     %d\n", sum.Segments)
	fmt.Printf("Placements:   %d\n", sum.Placements)
	fmt.Printf("Distance:     %.1f\n", sum.Distance)
	fmt.Printf("Level:        %d\n", sum.MaxLevel)
	fmt.Printf("Elevation:    %.1f\n", sum.Elevation)

	fmt.Println()
	fmt.Println("Segments by kind:")
	kinds := make([]string, 0, len(sum.Kinds))
	for k := range sum.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-18s %d\n", k, sum.Kinds[k])
	}

	fmt.Println()
	fmt.Println("Towers:")
	for t := track.TowerLow; t <= track.MaxTowerType; t++ {
		fmt.Printf("  %-18s %d\n", t, sum.Towers[t])
	}

	fmt.Println()
	fmt.Println("Objects:")
	for i := 0; i < track.NumPlaceables; i++ {
		p := track.Placeable(i)
		if n := sum.Objects[p]; n > 0 {
			fmt.Printf("  %-18s %d\n", p, n)
		}
	}
}
