package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/logging"
	"github.com/vovakirdan/tower-run/internal/platform/tui"
	"github.com/vovakirdan/tower-run/internal/registry"
	"github.com/vovakirdan/tower-run/internal/session"
	"github.com/vovakirdan/tower-run/internal/storage"
)

var previewCmd = &cobra.Command{
	Use:   "preview [driver]",
	Short: "Watch a track stream in",
	Long: `Drive along a generated track in the terminal.

Without a driver argument a picker menu is shown first; after a preview
ends you return to the menu to pick again.

Controls:
  Space/Up  - Boost
  P         - Pause
  R         - New track
  Esc/B     - Back to menu
  Ctrl+S    - Screenshot
  Q/Ctrl+C  - Quit

Examples:
  towerrun preview
  towerrun preview burst --difficulty hard
  towerrun preview cruise --seed 42 --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPreview,
}

func runPreview(_ *cobra.Command, args []string) {
	trackCfg, err := loadTrackConfig()
	if err != nil {
		fail("%v", err)
	}

	if len(args) == 1 && !registry.Exists(args[0]) {
		fail("unknown driver %q\nRun 'towerrun drivers' to see available drivers.", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if len(args) == 1 {
		if err := previewDriver(args[0], trackCfg, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsRuns {
			goBack, runsErr := tui.RunRunsBrowser(store, cfg.ScreenW, cfg.ScreenH)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue
			}
			return
		}

		if err := previewDriver(menuResult.DriverID, trackCfg, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		// Every pick after the first gets a fresh track
		cfg.Seed = 0
	}
}

// previewDriver runs one preview of the given driver.
func previewDriver(driverID string, trackCfg config.TrackConfig, store *storage.Store, cfg core.RuntimeConfig) error {
	driver, err := registry.Create(driverID)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = runSeed()
	}

	// The preview owns the terminal, so generator logs are dropped unless debugging.
	logger := logging.Discard()
	if flagLogLevel == "debug" {
		if logger, err = logging.New(nil, flagLogLevel, "towerrun"); err != nil {
			return err
		}
	}

	sess, err := session.New(trackCfg, driver, seed, session.WithLogger(logger))
	if err != nil {
		return err
	}
	return tui.RunPreview(sess, store, trackCfg.Difficulty.Preset, cfg)
}
