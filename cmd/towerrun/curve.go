package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tower-run/internal/track"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the difficulty curve",
	Long: `Show the segment count at which each difficulty level is reached and
the probability of every tower type at that level.

Examples:
  towerrun curve
  towerrun curve --difficulty hard
  towerrun curve --config ./my-track.yaml`,
	Args: cobra.NoArgs,
	Run:  runCurve,
}

func runCurve(_ *cobra.Command, _ []string) {
	cfg, err := loadTrackConfig()
	if err != nil {
		fail("%v", err)
	}
	curve := track.NewDifficultyCurve(cfg.Difficulty)

	// First segment count at which each level applies
	from := make(map[track.Level]int)
	last := cfg.Difficulty.Thresholds[len(cfg.Difficulty.Thresholds)-1]
	for n := 0; n <= last; n++ {
		if _, seen := from[curve.Level(n)]; !seen {
			from[curve.Level(n)] = n
		}
	}

	preset := cfg.Difficulty.Preset
	if preset == "" {
		preset = "normal"
	}
	fmt.Printf("Difficulty curve - %s\n", preset)
	fmt.Println()

	header := []string{fmt.Sprintf("%-5s", "Level"), fmt.Sprintf("%-7s", "From")}
	for t := track.TowerLow; t <= track.MaxTowerType; t++ {
		header = append(header, fmt.Sprintf("%6d", int(t)))
	}
	fmt.Println("  " + strings.Join(header, "  "))

	for level := track.Level(0); level <= curve.MaxLevel(); level++ {
		start, ok := from[level]
		if !ok {
			continue
		}
		weights := track.TypeWeights(level)
		row := []string{fmt.Sprintf("%-5d", level), fmt.Sprintf("%-7d", start)}
		for t := track.TowerLow; t <= track.MaxTowerType; t++ {
			if w, ok := weights[t]; ok {
				row = append(row, fmt.Sprintf("%5.1f%%", w*100))
			} else {
				row = append(row, fmt.Sprintf("%6s", "-"))
			}
		}
		fmt.Println("  " + strings.Join(row, "  "))
	}

	fmt.Println()
	fmt.Println("Tower types:")
	for t := track.TowerLow; t <= track.MaxTowerType; t++ {
		fmt.Printf("  %d  %s\n", int(t), t)
	}
}
