package track

import (
	"testing"

	"github.com/vovakirdan/tower-run/internal/config"
)

func TestDifficultyCurveTable(t *testing.T) {
	curve := DefaultDifficultyCurve()

	tests := []struct {
		segments int
		expected Level
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 3},
		{6, 3},
		{7, 4},
		{9, 4},
		{10, 5},
		{14, 5},
		{15, 6},
		{19, 6},
		{20, 7},
		{1000, 7},
	}

	for _, tt := range tests {
		if got := curve.Level(tt.segments); got != tt.expected {
			t.Errorf("Level(%d) = %d, expected %d", tt.segments, got, tt.expected)
		}
	}
}

func TestDifficultyCurveMonotonic(t *testing.T) {
	presets := []config.Preset{config.PresetNormal, config.PresetHard, config.PresetFixed}

	for _, preset := range presets {
		t.Run(string(preset), func(t *testing.T) {
			cfg := config.DefaultTrackConfig()
			config.ApplyPreset(&cfg, preset)
			curve := NewDifficultyCurve(cfg.Difficulty)

			prev := curve.Level(0)
			for n := 1; n < 200; n++ {
				level := curve.Level(n)
				if level < prev {
					t.Fatalf("Level(%d) = %d, dropped below Level(%d) = %d", n, level, n-1, prev)
				}
				if level > curve.MaxLevel() {
					t.Fatalf("Level(%d) = %d, above MaxLevel %d", n, level, curve.MaxLevel())
				}
				prev = level
			}
		})
	}
}

func TestDifficultyPresets(t *testing.T) {
	cfg := config.DefaultTrackConfig()

	config.ApplyPreset(&cfg, config.PresetHard)
	hard := NewDifficultyCurve(cfg.Difficulty)
	if got := hard.Level(0); got != 3 {
		t.Errorf("hard Level(0) = %d, expected 3", got)
	}
	if got := hard.Level(16); got != 7 {
		t.Errorf("hard Level(16) = %d, expected 7", got)
	}

	config.ApplyPreset(&cfg, config.PresetFixed)
	cfg.Difficulty.FixedLevel = 5
	fixed := NewDifficultyCurve(cfg.Difficulty)
	for _, n := range []int{0, 5, 50} {
		if got := fixed.Level(n); got != 5 {
			t.Errorf("fixed Level(%d) = %d, expected 5", n, got)
		}
	}
	if fixed.MaxLevel() != 5 {
		t.Errorf("fixed MaxLevel() = %d, expected 5", fixed.MaxLevel())
	}
}

func TestDifficultyCurveCustomThresholds(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	cfg.Difficulty.Thresholds = []int{5, 10}
	curve := NewDifficultyCurve(cfg.Difficulty)

	if curve.MaxLevel() != 2 {
		t.Errorf("MaxLevel() = %d, expected 2", curve.MaxLevel())
	}
	if got := curve.Level(9); got != 1 {
		t.Errorf("Level(9) = %d, expected 1", got)
	}
	if got := curve.Level(100); got != 2 {
		t.Errorf("Level(100) = %d, expected 2", got)
	}
}
