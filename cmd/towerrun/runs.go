package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tower-run/internal/platform/tui"
	"github.com/vovakirdan/tower-run/internal/registry"
	"github.com/vovakirdan/tower-run/internal/storage"
	"github.com/vovakirdan/tower-run/internal/track"
)

var (
	flagRunsDriver string
	flagRunsLimit  int
	flagRunsID     string
	flagRunsTUI    bool
	flagRunsClear  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show run history",
	Long: `Display the best saved runs, ranked by segments cleared.

Examples:
  towerrun runs
  towerrun runs --driver burst --limit 20
  towerrun runs --id 6f1c2a9e-...
  towerrun runs --tui
  towerrun runs --driver stall --clear`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsDriver, "driver", "", "Only show runs of this driver")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsID, "id", "", "Show a single run with its tower counts")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse the history interactively")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every run of --driver")
}

func runRuns(_ *cobra.Command, _ []string) {
	if flagRunsDriver != "" && !registry.Exists(flagRunsDriver) {
		fail("unknown driver %q\nRun 'towerrun drivers' to see available drivers.", flagRunsDriver)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run database: %v", err)
	}
	defer store.Close()

	switch {
	case flagRunsTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if _, err := tui.RunRunsBrowser(store, width, height); err != nil {
			fail("%v", err)
		}
	case flagRunsClear:
		if flagRunsDriver == "" {
			fail("--clear requires --driver")
		}
		if err := store.ClearRuns(flagRunsDriver); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared runs of %s.\n", flagRunsDriver)
	case flagRunsID != "":
		printRun(store, flagRunsID)
	default:
		printRuns(store)
	}
}

// printRuns lists the best runs followed by per-driver statistics.
func printRuns(store *storage.Store) {
	runs, err := store.TopRuns(flagRunsDriver, flagRunsLimit)
	if err != nil {
		fail("retrieving runs: %v", err)
	}

	title := "all drivers"
	if flagRunsDriver != "" {
		title = flagRunsDriver
	}
	fmt.Printf("Run History - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'towerrun simulate --save' to record the first run!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-9s  %-8s  %-20s  %s\n", "Rank", "Cleared", "Level", "Distance", "Driver", "Seed", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-9s  %-8s  %-20s  %s\n", "----", "-------", "-----", "--------", "------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-9.0f  %-8s  %-20d  %s\n",
			i+1, r.Cleared, r.MaxLevel, r.Distance, r.Driver, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagRunsDriver != "" {
		hist, err := store.TowerHistogram(flagRunsDriver)
		if err == nil && len(hist) > 0 {
			fmt.Println()
			fmt.Println("Towers spawned:")
			printTowerCounts(hist)
		}
	}

	stats, err := store.AllDriverStats()
	if err != nil || len(stats) == 0 {
		return
	}
	drivers := make([]string, 0, len(stats))
	for d := range stats {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)

	fmt.Println()
	fmt.Printf("  %-8s  %-5s  %-5s  %-8s  %s\n", "Driver", "Runs", "Best", "Average", "Distance")
	for _, d := range drivers {
		s := stats[d]
		fmt.Printf("  %-8s  %-5d  %-5d  %-8.1f  %.0f\n", s.Driver, s.Runs, s.BestCleared, s.AvgCleared, s.TotalDist)
	}
}

// printRun shows one run in detail.
func printRun(store *storage.Store, id string) {
	r, err := store.RunByID(id)
	if err != nil {
		fail("%v", err)
	}
	if r == nil {
		fail("no run with id %s", id)
	}

	fmt.Printf("Run:          %s\n", r.ID)
	fmt.Printf("Date:         %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Driver:       %s\n", r.Driver)
	fmt.Printf("Seed:         %d\n", r.Seed)
	fmt.Printf("Difficulty:   %s\n", r.Preset)
	fmt.Printf("Ticks:        %d\n", r.Ticks)
	fmt.Printf("Distance:     %.1f\n", r.Distance)
	fmt.Printf("Cleared:      %d\n", r.Cleared)
	fmt.Printf("Segments:     %d (%d checkpoints, %d transitions)\n", r.Segments, r.Checkpoints, r.Transitions)
	fmt.Printf("Level:        %d\n", r.MaxLevel)
	fmt.Printf("Elevation:    %.1f\n", r.Elevation)
	if r.ReplayDir != "" {
		fmt.Printf("Recording:    %s\n", r.ReplayDir)
	}
	fmt.Println()
	fmt.Println("Towers:")
	printTowerCounts(r.Towers)
}

// printTowerCounts prints counts keyed by tower type.
func printTowerCounts(counts map[int]int) {
	for t := track.TowerLow; t <= track.MaxTowerType; t++ {
		fmt.Printf("  %-18s %d\n", t, counts[int(t)])
	}
}
