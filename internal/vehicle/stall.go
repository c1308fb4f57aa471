package vehicle

import (
	"math/rand"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// StallID is the registry ID of the unreliable driver.
const StallID = "stall"

// Stall cruises but its position reading drops out on random ticks.
type Stall struct {
	motion
	rng     *rand.Rand
	stalled bool
}

// NewStall creates a stall driver with default tunables.
func NewStall() *Stall {
	s := &Stall{}
	s.Reset(config.DefaultTrackConfig().Vehicle, 0, 1)
	return s
}

// ID returns the driver ID.
func (s *Stall) ID() string { return StallID }

// Title returns the display name.
func (s *Stall) Title() string { return "Stall" }

// Reset places the vehicle at start and reseeds the dropout source.
func (s *Stall) Reset(cfg config.VehicleConfig, start float64, seed int64) {
	s.reset(cfg, start)
	s.rng = rand.New(rand.NewSource(seed))
	s.stalled = false
}

// Step advances one tick and decides whether the reading drops out.
func (s *Stall) Step(in core.InputFrame) {
	s.advance(in)
	s.stalled = s.rng.Float64() < s.cfg.StallChance
}

// Stalled reports whether the current reading is unavailable.
func (s *Stall) Stalled() bool {
	return s.stalled
}

// ForwardPosition reports the current position unless the reading dropped out.
func (s *Stall) ForwardPosition() (float64, bool) {
	if s.stalled {
		return 0, false
	}
	return s.pos, true
}
