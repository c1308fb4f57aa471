package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/registry"
	"github.com/vovakirdan/tower-run/internal/replay"
	"github.com/vovakirdan/tower-run/internal/session"
	"github.com/vovakirdan/tower-run/internal/storage"
	"github.com/vovakirdan/tower-run/internal/track"
	"github.com/vovakirdan/tower-run/internal/vehicle"
)

var (
	flagSimDriver string
	flagSimTicks  int
	flagSimRecord string
	flagSimSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a track headlessly",
	Long: `Drive a vehicle along a generated track without a terminal UI
and print what was spawned.

With --record, every spawned segment and placement is written to a bundle
directory that 'towerrun replay' can read back. With --save, the run is
added to the run history.

Examples:
  towerrun simulate
  towerrun simulate --driver burst --ticks 6000
  towerrun simulate --seed 42 --record ./tracks --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimDriver, "driver", vehicle.CruiseID, "Driver ID (see 'towerrun drivers')")
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Number of simulation ticks")
	simulateCmd.Flags().StringVar(&flagSimRecord, "record", "", "Directory to record the track bundle into")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save the run to the history database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	cfg, err := loadTrackConfig()
	if err != nil {
		fail("%v", err)
	}
	logger, err := newLogger("towerrun")
	if err != nil {
		fail("%v", err)
	}

	res, err := simulate(cfg, simulation{
		Driver: flagSimDriver,
		Ticks:  flagSimTicks,
		Seed:   runSeed(),
		Record: flagSimRecord,
	}, logger)
	if err != nil {
		fail("%v", err)
	}

	printSummary(res.Summary, cfg.Difficulty.Preset)
	if res.ReplayDir != "" {
		fmt.Printf("Recorded to:  %s\n", res.ReplayDir)
	}

	if !flagSimSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("%v", err)
	}
	defer store.Close()

	id, err := store.SaveRun(res.Summary.Record(cfg.Difficulty.Preset, res.ReplayDir))
	if err != nil {
		logger.Error("could not save run", "error", err)
		return
	}
	fmt.Printf("Saved run:    %s\n", id)
}

// simulation describes one headless run.
type simulation struct {
	Driver string
	Ticks  int
	Seed   int64
	Record string // Bundle root directory; empty disables recording
}

// simulationResult is what a headless run produced.
type simulationResult struct {
	Summary   session.Summary
	ReplayDir string
}

// simulate drives a session for sim.Ticks ticks with no input. A recording
// whose session could not be created is removed again.
func simulate(cfg config.TrackConfig, sim simulation, logger *log.Logger) (simulationResult, error) {
	if sim.Ticks <= 0 {
		return simulationResult{}, fmt.Errorf("--ticks must be positive, got %d", sim.Ticks)
	}

	driver, err := registry.Create(sim.Driver)
	if err != nil {
		return simulationResult{}, fmt.Errorf("%w\nRun 'towerrun drivers' to see available drivers", err)
	}

	opts := []session.Option{session.WithLogger(logger)}

	var rec *replay.Recorder
	if sim.Record != "" {
		rec, err = replay.NewRecorder(sim.Record, sim.Seed, driver.ID(), cfg, nil)
		if err != nil {
			return simulationResult{}, err
		}
		opts = append(opts, session.WithObserver(rec))
	}

	sess, err := session.New(cfg, driver, sim.Seed, opts...)
	if err != nil {
		if rec != nil {
			if discardErr := rec.Discard(); discardErr != nil {
				logger.Warn("could not remove recording", "dir", rec.Directory(), "error", discardErr)
			}
		}
		return simulationResult{}, err
	}

	in := core.NewInputFrame()
	for i := 0; i < sim.Ticks; i++ {
		sess.Step(in)
	}
	res := simulationResult{Summary: sess.Summary()}

	if rec != nil {
		if err := rec.Close(); err != nil {
			return res, err
		}
		res.ReplayDir = rec.Directory()
	}
	return res, nil
}

// printSummary writes a session summary to stdout.
func printSummary(sum session.Summary, preset string) {
	fmt.Printf("Driver:       %s\n", sum.Driver)
	fmt.Printf("Seed:         %d\n", sum.Seed)
	if preset == "" {
		preset = "normal"
	}
	fmt.Printf("Difficulty:   %s\n", preset)
	fmt.Printf("Ticks:        %d\n", sum.Ticks)
	fmt.Printf("Distance:     %.1f\n", sum.Distance)
	fmt.Printf("Cleared:      %d\n", sum.Cleared)
	fmt.Printf("Segments:     %d (%d checkpoints, %d transitions)\n", sum.Segments, sum.Checkpoints, sum.Transitions)
	fmt.Printf("Level:        %d\n", sum.MaxLevel)
	fmt.Printf("Elevation:    %.1f\n", sum.Elevation)

	fmt.Println()
	fmt.Println("Towers:")
	for t := track.TowerLow; t <= track.MaxTowerType; t++ {
		fmt.Printf("  %-18s %d\n", t, sum.Towers[t])
	}
	fmt.Println()
}
