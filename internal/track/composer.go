package track

import (
	"math/rand"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// Composer turns a segment kind and position into placement requests.
type Composer struct {
	cfg    config.TrackConfig
	rng    *rand.Rand
	towers *TowerGenerator
}

// NewComposer creates a composer drawing building heights and towers from rng.
func NewComposer(cfg config.TrackConfig, rng *rand.Rand) *Composer {
	return &Composer{cfg: cfg, rng: rng, towers: NewTowerGenerator(rng)}
}

// Compose builds the contents of one segment at pos.
func (c *Composer) Compose(kind SegmentKind, level Level, pos core.Vec3) Segment {
	seg := Segment{Kind: kind, Level: level, Position: pos}

	switch kind {
	case KindStart:
		seg.Placements = []Placement{{Kind: PlaceStraightRoad, Position: pos}}
	case KindTransition:
		seg.Placements = []Placement{{Kind: PlaceTransitionRoad, Position: pos}}
		seg.Rise = c.cfg.Spawn.TransitionRise
	case KindCheckpoint:
		seg.Placements = append(seg.Placements, Placement{Kind: PlaceStraightRoad, Position: pos})
		seg.Placements = c.appendBuildings(seg.Placements, pos)
		seg.Placements = append(seg.Placements, Placement{Kind: PlaceCheckpoint, Position: pos})
	case KindTower:
		seg.Placements = append(seg.Placements, Placement{Kind: PlaceStraightRoad, Position: pos})
		seg.Placements = c.appendBuildings(seg.Placements, pos)
		layout := c.towers.Generate(level)
		seg.Tower = &layout
		seg.Placements = c.appendTower(seg.Placements, layout, pos)
		if c.cfg.Coins.Enabled {
			seg.Placements = c.appendCoins(seg.Placements, pos)
		}
	}
	return seg
}

func (c *Composer) appendBuildings(out []Placement, pos core.Vec3) []Placement {
	b := c.cfg.Buildings
	for i := 0; i < b.Count; i++ {
		h := float64(b.MinHeight)
		if b.MaxHeight > b.MinHeight {
			h = float64(b.MinHeight + c.rng.Intn(b.MaxHeight-b.MinHeight))
		}
		out = append(out, Placement{
			Kind:     PlaceBuilding,
			Position: pos.Add(core.V3(b.Setback, h/2, (b.Depth+b.Gap)*float64(i))),
			Scale:    core.V3(b.Width, h, b.Depth),
		})
	}
	return out
}

func (c *Composer) appendTower(out []Placement, layout TowerLayout, pos core.Vec3) []Placement {
	a := c.cfg.Arches
	for _, s := range layout.Slots {
		out = append(out, Placement{
			Kind:     s.Variant.Arch(),
			Position: pos.Add(core.V3(0, float64(s.Row)*a.Height, float64(s.Depth)*a.Spacing)),
		})
	}
	return out
}

func (c *Composer) appendCoins(out []Placement, pos core.Vec3) []Placement {
	length := c.cfg.Spawn.SegmentLength
	step := c.cfg.Coins.Spacing
	if step <= 0 {
		return out
	}
	for z := length / 4; z <= 3*length/4; z += step {
		out = append(out, Placement{
			Kind:          PlaceCoin,
			Position:      pos.Add(core.Forward(z)),
			ResetRotation: true,
		})
	}
	return out
}

// Place acquires one pooled object per placement and positions it.
func (c *Composer) Place(seg Segment, pool Pool) {
	for _, p := range seg.Placements {
		obj := pool.Acquire(p.Kind)
		obj.SetPosition(p.Position)
		if !p.Scale.IsZero() {
			obj.SetScale(p.Scale)
		}
		if p.ResetRotation {
			obj.ResetRotation()
		}
	}
}
