package session

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/pool"
	"github.com/vovakirdan/tower-run/internal/track"
)

const (
	unitsPerRow = 1.5 // World height covered by one screen row
	hudRows     = 1
	groundInset = 3 // Rows between the player's road and the bottom edge
)

// view maps world coordinates to screen cells for one frame.
type view struct {
	playerZ   float64
	cameraY   float64
	playerCol int
	groundRow int
	unitsCol  float64
}

func (v view) col(z float64) int {
	return v.playerCol + int(math.Floor((z-v.playerZ)/v.unitsCol))
}

func (v view) row(y float64) int {
	return v.groundRow - int(math.Round((y-v.cameraY)/unitsPerRow))
}

// Render draws a side view of the track around the player into dst.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 10 || h < hudRows+groundInset+2 {
		return
	}

	objects := s.pool.Active()
	segLen := s.cfg.Spawn.SegmentLength

	v := view{
		playerZ:   s.driver.Position(),
		playerCol: w / 6,
		groundRow: h - groundInset,
	}
	v.unitsCol = math.Max(1, (s.cfg.Spawn.Lookahead+segLen)/float64(w-v.playerCol))
	v.cameraY = s.roadHeight(objects, v.playerZ)

	for _, o := range objects {
		if o.Kind == track.PlaceBuilding {
			s.drawBuilding(dst, v, o)
		}
	}
	for _, o := range objects {
		switch o.Kind {
		case track.PlaceStraightRoad:
			dst.DrawHLine(v.col(o.Position.Z), v.row(o.Position.Y)+1, int(math.Ceil(segLen/v.unitsCol)), '=', core.ColorRoad)
		case track.PlaceTransitionRoad:
			s.drawIncline(dst, v, o)
		case track.PlaceCheckpoint:
			for k := 0; k < 4; k++ {
				dst.SetColored(v.col(o.Position.Z), v.row(o.Position.Y)-k, '║', core.ColorCheckpoint)
			}
		case track.PlaceArch1, track.PlaceArch2, track.PlaceArch3:
			s.drawArch(dst, v, o)
		case track.PlaceCoin:
			dst.SetColored(v.col(o.Position.Z), v.row(o.Position.Y+unitsPerRow), 'o', core.ColorCoin)
		}
	}

	dst.SetColored(v.playerCol, v.groundRow, '>', core.ColorVehicle)
	s.drawHUD(dst)
}

// roadHeight returns the road surface elevation at forward position z.
func (s *Session) roadHeight(objects []pool.Object, z float64) float64 {
	segLen := s.cfg.Spawn.SegmentLength
	for _, o := range objects {
		if o.Position.Z > z || o.Position.Z+segLen <= z {
			continue
		}
		switch o.Kind {
		case track.PlaceStraightRoad:
			return o.Position.Y
		case track.PlaceTransitionRoad:
			return o.Position.Y + s.cfg.Spawn.TransitionRise*(z-o.Position.Z)/segLen
		}
	}
	return s.cfg.Spawn.Start.Y
}

func (s *Session) drawBuilding(dst *core.Screen, v view, o pool.Object) {
	base := o.Position.Y - o.Scale.Y/2
	top, bottom := v.row(base+o.Scale.Y), v.row(base)
	left := v.col(o.Position.Z)
	width := int(math.Max(1, o.Scale.Z/v.unitsCol))
	dst.DrawRect(core.NewRect(left, top, width, bottom-top+1), '░', core.ColorBuilding)
}

func (s *Session) drawIncline(dst *core.Screen, v view, o pool.Object) {
	segLen := s.cfg.Spawn.SegmentLength
	span := int(math.Ceil(segLen / v.unitsCol))
	start := v.col(o.Position.Z)
	for i := 0; i < span; i++ {
		y := o.Position.Y + s.cfg.Spawn.TransitionRise*float64(i)/float64(span)
		dst.SetColored(start+i, v.row(y)+1, '/', core.ColorIncline)
	}
}

// drawArch draws one arch. Open arches only fill the cell that closes the
// opening, so a paired gap reads as a hole between two bars.
func (s *Session) drawArch(dst *core.Screen, v view, o pool.Object) {
	rows := int(math.Max(1, math.Round(s.cfg.Arches.Height/unitsPerRow)))
	col := v.col(o.Position.Z)
	bottom := v.row(o.Position.Y)

	switch o.Kind {
	case track.PlaceArch3:
		for k := 0; k < rows; k++ {
			dst.SetColored(col, bottom-k, '█', core.ColorSolidArch)
		}
	case track.PlaceArch2:
		dst.SetColored(col, bottom-rows+1, '▀', core.ColorOpenArch)
	case track.PlaceArch1:
		dst.SetColored(col, bottom, '▄', core.ColorOpenArch)
	}
}

func (s *Session) drawHUD(dst *core.Screen) {
	st := s.State()
	hud := fmt.Sprintf(" %s  dist %.0f  cleared %d  segments %d  level %d  elev %.0f  last %s",
		s.driver.Title(), st.Position, st.Cleared, st.Segments, st.Level, st.Elevation, s.lastTower)
	if st.Paused {
		hud += "  PAUSED"
	}
	dst.DrawTextColored(0, 0, hud, core.ColorWhite)
}
