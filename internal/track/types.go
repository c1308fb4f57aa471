// Package track implements the procedural track generator: the difficulty
// curve, the tower layout generator, the segment composer and the streaming
// spawn scheduler that keeps the road populated ahead of the player.
package track

import (
	"fmt"

	"github.com/vovakirdan/tower-run/internal/core"
)

// Level is a discrete difficulty level. It never decreases during a run.
type Level int

// SegmentKind identifies what a segment contains.
type SegmentKind int

const (
	KindStart      SegmentKind = iota // Road only, always segment 0
	KindTower                         // Road, buildings and an obstacle tower
	KindCheckpoint                    // Road, buildings and a checkpoint gate
	KindTransition                    // Inclined road that raises every later segment
)

// String returns the lowercase name of the kind.
func (k SegmentKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindTower:
		return "tower"
	case KindCheckpoint:
		return "checkpoint"
	case KindTransition:
		return "transition"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TowerType selects the obstacle composition of a tower.
type TowerType int

const (
	TowerLow            TowerType = iota // One solid arch, jump over
	TowerMedium                          // Two solid arches, jump over
	TowerTall                            // Three solid arches, jump over
	TowerDeep                            // Several rows deep, jump over
	TowerDriveUnder                      // Gap at ground level
	TowerFlyThrough                      // One elevated gap
	TowerFlyThroughHigh                  // One elevated gap
)

// MaxTowerType is the highest defined tower type.
const MaxTowerType = TowerFlyThroughHigh

// String returns a short description of the tower type.
func (t TowerType) String() string {
	switch t {
	case TowerLow:
		return "low"
	case TowerMedium:
		return "medium"
	case TowerTall:
		return "tall"
	case TowerDeep:
		return "deep"
	case TowerDriveUnder:
		return "drive-under"
	case TowerFlyThrough, TowerFlyThroughHigh:
		return "fly-through"
	default:
		return fmt.Sprintf("tower(%d)", int(t))
	}
}

// IsFlyThrough reports whether the tower must be passed through an elevated gap.
func (t TowerType) IsFlyThrough() bool {
	return t >= TowerFlyThrough
}

// SlotVariant tags one arch of a tower.
type SlotVariant int

const (
	VariantSolid        SlotVariant = iota // Fully blocking
	VariantGroundGap                       // Drivable gap at ground level
	VariantElevatedGap                     // Lower half of an elevated opening
	VariantGapCompanion                    // Upper half paired with the elevated gap below it
)

// String returns the variant name.
func (v SlotVariant) String() string {
	switch v {
	case VariantSolid:
		return "solid"
	case VariantGroundGap:
		return "ground-gap"
	case VariantElevatedGap:
		return "elevated-gap"
	case VariantGapCompanion:
		return "gap-companion"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Arch returns the pooled arch piece that renders this variant.
func (v SlotVariant) Arch() Placeable {
	switch v {
	case VariantElevatedGap:
		return PlaceArch1
	case VariantGroundGap, VariantGapCompanion:
		return PlaceArch2
	default:
		return PlaceArch3
	}
}

// ObstacleSlot is one arch position within a tower.
type ObstacleSlot struct {
	Row     int // Height index, multiplied by the arch height
	Depth   int // Column index along the forward axis, multiplied by the arch spacing
	Variant SlotVariant
}

// TowerLayout is the generated arrangement of a tower.
type TowerLayout struct {
	Type   TowerType
	Height int // Arches per column
	Depth  int // Columns along the forward axis
	Slots  []ObstacleSlot
}

// Placeable enumerates the pooled object kinds the generator requests.
type Placeable int

const (
	PlaceStraightRoad Placeable = iota
	PlaceTransitionRoad
	PlaceBuilding
	PlaceCheckpoint
	PlaceArch1 // Elevated opening
	PlaceArch2 // Ground-level opening
	PlaceArch3 // Solid
	PlaceCoin
)

// NumPlaceables is the number of Placeable kinds.
const NumPlaceables = int(PlaceCoin) + 1

// String returns the pool name of the kind.
func (p Placeable) String() string {
	switch p {
	case PlaceStraightRoad:
		return "straight-road"
	case PlaceTransitionRoad:
		return "transition-road"
	case PlaceBuilding:
		return "building"
	case PlaceCheckpoint:
		return "checkpoint"
	case PlaceArch1:
		return "arch1"
	case PlaceArch2:
		return "arch2"
	case PlaceArch3:
		return "arch3"
	case PlaceCoin:
		return "coin"
	default:
		return fmt.Sprintf("placeable(%d)", int(p))
	}
}

// Placement is a request to position one pooled object.
type Placement struct {
	Kind          Placeable
	Position      core.Vec3
	Scale         core.Vec3 // Zero means keep the object's own scale
	ResetRotation bool
}

// Segment is one generated slice of track.
type Segment struct {
	Index      int
	Kind       SegmentKind
	Level      Level
	Position   core.Vec3
	Tower      *TowerLayout // Set for tower segments only
	Rise       float64      // Elevation added to every later segment
	Placements []Placement
}
