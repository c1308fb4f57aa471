package config

import (
	_ "embed"

	"github.com/vovakirdan/tower-run/internal/core"
)

//go:embed defaults/track.yaml
var defaultTrackYAML []byte

// DefaultThresholds is the segment count at which each level after 0 begins.
var DefaultThresholds = []int{2, 3, 4, 7, 10, 15, 20}

// DefaultTrackConfig returns the default track configuration.
func DefaultTrackConfig() TrackConfig {
	return TrackConfig{
		Spawn: SpawnConfig{
			Start:          core.Vec3{},
			Lookahead:      200,
			SegmentLength:  75,
			TransitionRise: 5,
		},
		Arches: ArchConfig{
			Height:  3,
			Spacing: 3,
		},
		Buildings: BuildingConfig{
			Count:     5,
			Width:     8,
			Depth:     8,
			Gap:       2,
			Setback:   12,
			MinHeight: 8,
			MaxHeight: 20,
		},
		Coins: CoinConfig{
			Enabled: false,
			Spacing: 4,
		},
		Cadence: CadenceConfig{
			TowersPerCheckpoint: 5,
		},
		Difficulty: DifficultyConfig{
			Preset:     string(PresetNormal),
			Thresholds: append([]int(nil), DefaultThresholds...),
			HardOffset: 4,
			FixedLevel: 3,
		},
		Vehicle: VehicleConfig{
			Speed:         1.5,
			Boost:         60,
			BurstEvery:    90,
			BurstDistance: 240,
			StallChance:   0.2,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTrackYAML
}
