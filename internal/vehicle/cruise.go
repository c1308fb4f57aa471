package vehicle

import (
	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// CruiseID is the registry ID of the constant-speed driver.
const CruiseID = "cruise"

// Cruise drives at constant speed and always reports its position.
type Cruise struct {
	motion
}

// NewCruise creates a cruise driver with default tunables.
func NewCruise() *Cruise {
	c := &Cruise{}
	c.reset(config.DefaultTrackConfig().Vehicle, 0)
	return c
}

// ID returns the driver ID.
func (c *Cruise) ID() string { return CruiseID }

// Title returns the display name.
func (c *Cruise) Title() string { return "Cruise" }

// Reset places the vehicle at start.
func (c *Cruise) Reset(cfg config.VehicleConfig, start float64, _ int64) {
	c.reset(cfg, start)
}

// Step advances one tick.
func (c *Cruise) Step(in core.InputFrame) {
	c.advance(in)
}

// ForwardPosition reports the current position.
func (c *Cruise) ForwardPosition() (float64, bool) {
	return c.pos, true
}
