package session

import "github.com/vovakirdan/tower-run/internal/storage"

// Record converts a summary into a run history row.
func (s Summary) Record(preset, replayDir string) storage.RunRecord {
	towers := make(map[int]int, len(s.Towers))
	for t, n := range s.Towers {
		towers[int(t)] = n
	}
	return storage.RunRecord{
		Seed:        s.Seed,
		Driver:      s.Driver,
		Preset:      preset,
		Ticks:       s.Ticks,
		Distance:    s.Distance,
		Cleared:     s.Cleared,
		Segments:    s.Segments,
		Checkpoints: s.Checkpoints,
		Transitions: s.Transitions,
		MaxLevel:    s.MaxLevel,
		Elevation:   s.Elevation,
		ReplayDir:   replayDir,
		Towers:      towers,
	}
}
