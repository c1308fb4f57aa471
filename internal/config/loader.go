package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TrackFileName is the file name looked up in the config directories.
const TrackFileName = "track.yaml"

// LoadTrack loads the track configuration.
// Search order: customPath -> ~/.towerrun/configs/track.yaml -> ./configs/track.yaml -> embedded default
// Fields missing from a file keep their default values.
func LoadTrack(customPath string) (TrackConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TrackConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseTrack(data)
		if err != nil {
			return TrackConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(TrackFileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseTrack(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", TrackFileName)); err == nil {
		if cfg, err := ParseTrack(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseTrack(defaultTrackYAML)
	if err != nil {
		return DefaultTrackConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseTrack decodes YAML on top of the defaults and validates the result.
func ParseTrack(data []byte) (TrackConfig, error) {
	cfg := DefaultTrackConfig()
	// Replace rather than merge the threshold list.
	cfg.Difficulty.Thresholds = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TrackConfig{}, err
	}
	if cfg.Difficulty.Thresholds == nil {
		cfg.Difficulty.Thresholds = append([]int(nil), DefaultThresholds...)
	}
	if err := cfg.Validate(); err != nil {
		return TrackConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive the generator.
func (c TrackConfig) Validate() error {
	if c.Spawn.SegmentLength <= 0 {
		return fmt.Errorf("config: segment_length must be positive, got %g", c.Spawn.SegmentLength)
	}
	if c.Spawn.Lookahead < 0 {
		return fmt.Errorf("config: lookahead must not be negative, got %g", c.Spawn.Lookahead)
	}
	if c.Arches.Height <= 0 || c.Arches.Spacing <= 0 {
		return errors.New("config: arch height and spacing must be positive")
	}
	if c.Buildings.Count < 0 {
		return fmt.Errorf("config: building count must not be negative, got %d", c.Buildings.Count)
	}
	if c.Buildings.MinHeight >= c.Buildings.MaxHeight {
		return fmt.Errorf("config: building min_height %d must be below max_height %d",
			c.Buildings.MinHeight, c.Buildings.MaxHeight)
	}
	if c.Coins.Enabled && c.Coins.Spacing <= 0 {
		return fmt.Errorf("config: coin spacing must be positive, got %g", c.Coins.Spacing)
	}
	if c.Cadence.TowersPerCheckpoint <= 0 {
		return fmt.Errorf("config: towers_per_checkpoint must be positive, got %d", c.Cadence.TowersPerCheckpoint)
	}
	return c.Difficulty.validate()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".towerrun", "configs", filename)
}
