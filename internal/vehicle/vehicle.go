// Package vehicle implements the built-in drivers that move along the track
// and feed the generator its player position.
package vehicle

import (
	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/registry"
)

func init() {
	registry.Register(CruiseID, func() registry.Driver { return NewCruise() })
	registry.Register(BurstID, func() registry.Driver { return NewBurst() })
	registry.Register(StallID, func() registry.Driver { return NewStall() })
}

// motion holds the state shared by every driver.
type motion struct {
	cfg   config.VehicleConfig
	pos   float64
	ticks int
}

func (m *motion) reset(cfg config.VehicleConfig, start float64) {
	m.cfg = cfg
	m.pos = start
	m.ticks = 0
}

// advance moves forward at cruising speed, plus the boost distance when
// the boost action fired this tick.
func (m *motion) advance(in core.InputFrame) {
	m.ticks++
	m.pos += m.cfg.Speed
	if in.Has(core.ActionBoost) {
		m.pos += m.cfg.Boost
	}
}

// Position returns the true forward position.
func (m *motion) Position() float64 {
	return m.pos
}

// Ticks returns the number of steps taken since the last reset.
func (m *motion) Ticks() int {
	return m.ticks
}
