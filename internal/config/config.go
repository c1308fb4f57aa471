// Package config provides YAML-based track configuration loading and
// difficulty presets for the generator.
package config

import "github.com/vovakirdan/tower-run/internal/core"

// TrackConfig contains every tunable of the track generator and the
// vehicles that drive it.
type TrackConfig struct {
	Spawn      SpawnConfig      `yaml:"spawn"`
	Arches     ArchConfig       `yaml:"arches"`
	Buildings  BuildingConfig   `yaml:"buildings"`
	Coins      CoinConfig       `yaml:"coins"`
	Cadence    CadenceConfig    `yaml:"cadence"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
}

// SpawnConfig defines the streaming window and segment layout.
type SpawnConfig struct {
	Start          core.Vec3 `yaml:"start"`
	Lookahead      float64   `yaml:"lookahead"`       // Distance ahead of the player that must be populated
	SegmentLength  float64   `yaml:"segment_length"`  // Longitudinal spacing between segments
	TransitionRise float64   `yaml:"transition_rise"` // Elevation added by each transition segment
}

// ArchConfig defines tower arch geometry.
type ArchConfig struct {
	Height  float64 `yaml:"height"`  // Vertical distance between stacked arches
	Spacing float64 `yaml:"spacing"` // Longitudinal distance between arch columns
}

// BuildingConfig defines the row of buildings lining each segment.
type BuildingConfig struct {
	Count     int     `yaml:"count"`
	Width     float64 `yaml:"width"`
	Depth     float64 `yaml:"depth"`
	Gap       float64 `yaml:"gap"`
	Setback   float64 `yaml:"setback"`    // Lateral offset from the road
	MinHeight int     `yaml:"min_height"` // Inclusive
	MaxHeight int     `yaml:"max_height"` // Exclusive
}

// CoinConfig defines the coin line placed over tower segments.
type CoinConfig struct {
	Enabled bool    `yaml:"enabled"`
	Spacing float64 `yaml:"spacing"`
}

// CadenceConfig defines how often checkpoints appear.
type CadenceConfig struct {
	TowersPerCheckpoint int `yaml:"towers_per_checkpoint"`
}

// DifficultyConfig defines the step curve from segment count to level.
type DifficultyConfig struct {
	Preset     string `yaml:"preset"`      // "normal", "hard" or "fixed"
	Thresholds []int  `yaml:"thresholds"`  // Level n is reached once the segment count reaches Thresholds[n-1]
	HardOffset int    `yaml:"hard_offset"` // Segment count head start for the hard preset
	FixedLevel int    `yaml:"fixed_level"` // Level used by the fixed preset
}

// VehicleConfig defines the built-in position sources.
type VehicleConfig struct {
	Speed         float64 `yaml:"speed"`          // Forward distance per tick
	Boost         float64 `yaml:"boost"`          // Distance jumped by the boost action
	BurstEvery    int     `yaml:"burst_every"`    // Ticks between teleports for the burst driver
	BurstDistance float64 `yaml:"burst_distance"` // Distance of each teleport
	StallChance   float64 `yaml:"stall_chance"`   // Probability a stall driver reports no position
}
