package replay

import "github.com/vovakirdan/tower-run/internal/track"

// Summary aggregates a bundle for display.
type Summary struct {
	Segments   int
	Placements int
	MaxLevel   int
	Elevation  float64
	Distance   float64
	Kinds      map[string]int
	Towers     map[track.TowerType]int
	Objects    map[track.Placeable]int
}

// Summarize counts segment kinds, tower types and placed objects.
func Summarize(b Bundle) Summary {
	s := Summary{
		Segments:   len(b.Segments),
		Placements: len(b.Placements),
		Kinds:      make(map[string]int),
		Towers:     make(map[track.TowerType]int),
		Objects:    make(map[track.Placeable]int),
	}
	for _, seg := range b.Segments {
		s.Kinds[seg.Kind]++
		s.Elevation += seg.Rise
		if seg.Level > s.MaxLevel {
			s.MaxLevel = seg.Level
		}
		if seg.Tower != nil {
			s.Towers[track.TowerType(seg.Tower.Type)]++
		}
	}
	for _, p := range b.Placements {
		s.Objects[p.Kind]++
	}
	s.Distance = float64(s.Segments) * b.Manifest.SegmentLength
	return s
}
