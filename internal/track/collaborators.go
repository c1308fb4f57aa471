package track

import (
	"errors"

	"github.com/vovakirdan/tower-run/internal/core"
)

var (
	ErrNoPositionSource = errors.New("track: position source is required")
	ErrNoPool           = errors.New("track: object pool is required")
	ErrNoProgressSink   = errors.New("track: progress sink is required")
)

// PositionSource reports the player's forward position.
// ok is false while no reading is available; the scheduler skips that tick.
type PositionSource interface {
	ForwardPosition() (z float64, ok bool)
}

// Transform is a pooled object the generator positions after acquiring it.
type Transform interface {
	SetPosition(p core.Vec3)
	SetScale(s core.Vec3)
	ResetRotation()
}

// Pool hands out fresh or reused objects. Release and reuse are the
// pool's responsibility; the generator never returns objects.
type Pool interface {
	Acquire(kind Placeable) Transform
}

// ProgressSink receives the number of segments the player has cleared.
type ProgressSink interface {
	SetClearedCount(n int)
}

// SegmentObserver is notified after each segment has been placed.
type SegmentObserver interface {
	SegmentSpawned(seg Segment)
}

// ObserverFunc adapts a function to SegmentObserver.
type ObserverFunc func(seg Segment)

// SegmentSpawned calls f(seg).
func (f ObserverFunc) SegmentSpawned(seg Segment) {
	f(seg)
}
