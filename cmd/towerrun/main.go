// towerrun generates endless tower-run tracks and previews them in the terminal.
//
// Usage:
//
//	towerrun drivers           - List available drivers
//	towerrun simulate          - Generate a track headlessly and print a summary
//	towerrun preview [driver]  - Watch a track stream in (menu if no driver given)
//	towerrun serve             - Start SSH server for remote previews
//	towerrun runs              - Show run history
//	towerrun replay <dir>      - Summarize a recorded track bundle
//	towerrun curve             - Print the difficulty curve
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible tracks
//	--db <path>           - Set database path (default: ~/.towerrun/runs.db)
//	--config <path>       - Use a custom track config YAML
//	--difficulty <preset> - Override the difficulty preset: normal, hard, fixed
//	--log-level <level>   - Set log level (default: info)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/logging"

	// Import vehicles to register their drivers
	_ "github.com/vovakirdan/tower-run/internal/vehicle"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "towerrun",
	Short: "Tower Run - endless procedural tracks in your terminal",
	Long: `Tower Run streams an endless track of towers, checkpoints and
elevation changes ahead of a moving vehicle. Difficulty rises with the
number of segments generated.

Available commands:
  drivers   - Show all available drivers
  simulate  - Generate a track headlessly
  preview   - Watch a track stream in
  serve     - Start SSH server for remote previews
  runs      - View run history
  replay    - Summarize a recorded track
  curve     - Print the difficulty curve

Examples:
  towerrun drivers
  towerrun simulate --driver burst --ticks 6000 --record ./tracks
  towerrun preview cruise --difficulty hard
  towerrun serve --ssh :2222
  towerrun runs --driver cruise`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.towerrun/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom track config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", logging.DefaultLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(curveCmd)
}

// loadTrackConfig loads the track config and applies the --difficulty override.
func loadTrackConfig() (config.TrackConfig, error) {
	cfg, err := config.LoadTrack(flagConfig)
	if err != nil {
		return config.TrackConfig{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return config.TrackConfig{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, nil
}

// newLogger creates the CLI logger with the --log-level flag.
func newLogger(prefix string) (*log.Logger, error) {
	return logging.New(os.Stderr, flagLogLevel, prefix)
}

// runSeed returns --seed, or a clock-derived seed when it is zero.
func runSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
