package track

import "github.com/vovakirdan/tower-run/internal/config"

// DifficultyCurve maps the number of segments spawned so far to a Level.
type DifficultyCurve struct {
	thresholds []int
	offset     int
	fixed      bool
	fixedLevel Level
}

// NewDifficultyCurve builds the curve selected by the configured preset.
// An unknown preset falls back to the normal curve.
func NewDifficultyCurve(cfg config.DifficultyConfig) DifficultyCurve {
	thresholds := cfg.Thresholds
	if len(thresholds) == 0 {
		thresholds = config.DefaultThresholds
	}
	c := DifficultyCurve{thresholds: append([]int(nil), thresholds...)}

	preset, _ := config.ParsePreset(cfg.Preset)
	switch preset {
	case config.PresetHard:
		c.offset = cfg.HardOffset
	case config.PresetFixed:
		c.fixed = true
		c.fixedLevel = Level(cfg.FixedLevel)
	}
	return c
}

// DefaultDifficultyCurve returns the normal curve with the default thresholds.
func DefaultDifficultyCurve() DifficultyCurve {
	return NewDifficultyCurve(config.DefaultTrackConfig().Difficulty)
}

// Level returns the difficulty for the given segment count.
func (c DifficultyCurve) Level(segmentsSpawned int) Level {
	if c.fixed {
		return c.fixedLevel
	}
	n := segmentsSpawned + c.offset
	level := 0
	for _, th := range c.thresholds {
		if n < th {
			break
		}
		level++
	}
	return Level(level)
}

// MaxLevel returns the level the curve saturates at.
func (c DifficultyCurve) MaxLevel() Level {
	if c.fixed {
		return c.fixedLevel
	}
	return Level(len(c.thresholds))
}
