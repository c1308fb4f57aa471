package track

import (
	"fmt"
	"math/rand"
)

const (
	rampStartLevel      = 3 // Levels below this pick the tower type directly
	minFlyThroughHeight = 3 // Solid base plus a paired opening
	maxFlyThroughHeight = 5
)

// TowerGenerator produces tower layouts for a difficulty level.
type TowerGenerator struct {
	rng     *rand.Rand
	sampler RampSampler
}

// NewTowerGenerator creates a generator drawing from rng.
func NewTowerGenerator(rng *rand.Rand) *TowerGenerator {
	return &TowerGenerator{rng: rng, sampler: NewRampSampler(rng)}
}

// Generate selects a tower type for level and materializes its slots.
func (g *TowerGenerator) Generate(level Level) TowerLayout {
	return g.Build(g.SelectType(level))
}

// SelectType picks the tower type. Below level 3 the type equals the level;
// above it harder types are linearly more likely.
func (g *TowerGenerator) SelectType(level Level) TowerType {
	if level < 0 {
		return TowerLow
	}
	if level < rampStartLevel {
		return TowerType(level)
	}
	upper := min(int(level)+1, int(MaxTowerType))
	return TowerType(g.sampler.Draw(1, upper))
}

// TypeWeights returns the probability of each tower type at level, matching
// the distribution SelectType draws from.
func TypeWeights(level Level) map[TowerType]float64 {
	switch {
	case level < 0:
		return map[TowerType]float64{TowerLow: 1}
	case level < rampStartLevel:
		return map[TowerType]float64{TowerType(level): 1}
	}
	upper := min(int(level)+1, int(MaxTowerType))
	weights := make(map[TowerType]float64)
	for i, w := range (RampSampler{}).Weights(1, upper) {
		weights[TowerType(1+i)] = w
	}
	return weights
}

// Build materializes the slots of a tower of type t.
func (g *TowerGenerator) Build(t TowerType) TowerLayout {
	switch {
	case t < TowerDeep:
		if t < TowerLow {
			t = TowerLow
		}
		return column(t, int(t)+1)
	case t == TowerDeep:
		return g.deep()
	case t == TowerDriveUnder:
		return g.driveUnder()
	default:
		return g.flyThrough(t)
	}
}

func column(t TowerType, height int) TowerLayout {
	slots := make([]ObstacleSlot, height)
	for y := range slots {
		slots[y] = ObstacleSlot{Row: y, Variant: VariantSolid}
	}
	return TowerLayout{Type: t, Height: height, Depth: 1, Slots: slots}
}

func (g *TowerGenerator) deep() TowerLayout {
	height := g.intRange(1, 3)
	maxDepth := 4
	if height == 3 {
		maxDepth = 3
	}
	depth := g.intRange(1, maxDepth)

	slots := make([]ObstacleSlot, 0, height*depth)
	for d := 0; d < depth; d++ {
		for y := 0; y < height; y++ {
			slots = append(slots, ObstacleSlot{Row: y, Depth: d, Variant: VariantSolid})
		}
	}
	return TowerLayout{Type: TowerDeep, Height: height, Depth: depth, Slots: slots}
}

func (g *TowerGenerator) driveUnder() TowerLayout {
	height := g.intRange(3, 5)
	layout := column(TowerDriveUnder, height)
	layout.Slots[0].Variant = VariantGroundGap
	return layout
}

func (g *TowerGenerator) flyThrough(t TowerType) TowerLayout {
	height := g.intRange(minFlyThroughHeight, maxFlyThroughHeight)
	layout := column(t, height)

	hasOpening, pairPending := false, false
	for y := 1; y < height; y++ {
		if pairPending {
			layout.Slots[y].Variant = VariantGapCompanion
			pairPending = false
			continue
		}
		remaining := height - y
		open := (remaining > 2 && g.rng.Float64() > 0.5) ||
			(!hasOpening && height > 3) ||
			(!hasOpening && remaining == 2)
		if open {
			layout.Slots[y].Variant = VariantElevatedGap
			hasOpening, pairPending = true, true
		}
	}
	return layout
}

// intRange returns an integer in [lo, hi].
func (g *TowerGenerator) intRange(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// Check reports the first way the layout would block every path through it.
func (l TowerLayout) Check() error {
	if len(l.Slots) == 0 {
		return fmt.Errorf("track: %s tower has no slots", l.Type)
	}
	var ground, elevated, companions int
	for i, s := range l.Slots {
		switch s.Variant {
		case VariantGroundGap:
			if s.Row != 0 {
				return fmt.Errorf("track: ground gap at row %d", s.Row)
			}
			ground++
		case VariantElevatedGap:
			if s.Row == 0 {
				return fmt.Errorf("track: elevated gap at ground level")
			}
			if i+1 >= len(l.Slots) || l.Slots[i+1].Variant != VariantGapCompanion {
				return fmt.Errorf("track: elevated gap at row %d has no companion", s.Row)
			}
			elevated++
		case VariantGapCompanion:
			if i == 0 || l.Slots[i-1].Variant != VariantElevatedGap {
				return fmt.Errorf("track: companion at row %d without a gap below", s.Row)
			}
			companions++
		}
	}

	switch {
	case l.Type == TowerDriveUnder && ground != 1:
		return fmt.Errorf("track: drive-under tower has %d ground gaps", ground)
	case l.Type.IsFlyThrough() && elevated == 0:
		return fmt.Errorf("track: fly-through tower of height %d has no opening", l.Height)
	case elevated != companions:
		return fmt.Errorf("track: %d elevated gaps but %d companions", elevated, companions)
	}
	return nil
}
