package vehicle

import (
	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// BurstID is the registry ID of the teleporting driver.
const BurstID = "burst"

// Burst cruises and periodically jumps far ahead, so a single generator
// tick has to fill several segments at once.
type Burst struct {
	motion
}

// NewBurst creates a burst driver with default tunables.
func NewBurst() *Burst {
	b := &Burst{}
	b.reset(config.DefaultTrackConfig().Vehicle, 0)
	return b
}

// ID returns the driver ID.
func (b *Burst) ID() string { return BurstID }

// Title returns the display name.
func (b *Burst) Title() string { return "Burst" }

// Reset places the vehicle at start.
func (b *Burst) Reset(cfg config.VehicleConfig, start float64, _ int64) {
	b.reset(cfg, start)
}

// Step advances one tick and teleports every BurstEvery ticks.
func (b *Burst) Step(in core.InputFrame) {
	b.advance(in)
	if b.cfg.BurstEvery > 0 && b.ticks%b.cfg.BurstEvery == 0 {
		b.pos += b.cfg.BurstDistance
	}
}

// ForwardPosition reports the current position.
func (b *Burst) ForwardPosition() (float64, bool) {
	return b.pos, true
}
