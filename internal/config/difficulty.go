package config

import (
	"errors"
	"fmt"
)

// Preset names a difficulty curve variant.
type Preset string

const (
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	PresetFixed  Preset = "fixed"
)

// ParsePreset converts a CLI or YAML value into a Preset.
// An empty string selects the normal curve.
func ParsePreset(raw string) (Preset, error) {
	switch Preset(raw) {
	case "", PresetNormal:
		return PresetNormal, nil
	case PresetHard:
		return PresetHard, nil
	case PresetFixed:
		return PresetFixed, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty preset %q", raw)
	}
}

// ApplyPreset switches the configuration to the given preset.
func ApplyPreset(cfg *TrackConfig, preset Preset) {
	cfg.Difficulty.Preset = string(preset)
}

// MaxLevel returns the saturating ceiling implied by the thresholds.
func (d DifficultyConfig) MaxLevel() int {
	return len(d.Thresholds)
}

func (d DifficultyConfig) validate() error {
	if _, err := ParsePreset(d.Preset); err != nil {
		return err
	}
	if len(d.Thresholds) == 0 {
		return errors.New("config: difficulty thresholds must not be empty")
	}
	prev := 0
	for i, th := range d.Thresholds {
		if th <= prev {
			return fmt.Errorf("config: difficulty threshold %d (%d) must be greater than %d", i, th, prev)
		}
		prev = th
	}
	if d.HardOffset < 0 {
		return fmt.Errorf("config: hard_offset must not be negative, got %d", d.HardOffset)
	}
	if d.FixedLevel < 0 || d.FixedLevel > d.MaxLevel() {
		return fmt.Errorf("config: fixed_level must be within [0, %d], got %d", d.MaxLevel(), d.FixedLevel)
	}
	return nil
}
