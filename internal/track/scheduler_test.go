package track

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/tower-run/internal/config"
)

type recordedRun struct {
	segments []Segment
}

func (r *recordedRun) SegmentSpawned(seg Segment) {
	r.segments = append(r.segments, seg)
}

func (r *recordedRun) kinds() []SegmentKind {
	out := make([]SegmentKind, len(r.segments))
	for i, s := range r.segments {
		out[i] = s.Kind
	}
	return out
}

func newTestScheduler(t *testing.T, seed int64) (*Scheduler, *fakePositions, *fakePool, *fakeProgress, *recordedRun) {
	t.Helper()
	positions := &fakePositions{ok: true}
	pool := &fakePool{}
	progress := &fakeProgress{}
	run := &recordedRun{}

	s, err := NewScheduler(config.DefaultTrackConfig(), positions, pool, progress, WithSeed(seed), WithObserver(run))
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s, positions, pool, progress, run
}

func TestNewSchedulerMissingCollaborators(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	positions := &fakePositions{}
	pool := &fakePool{}
	progress := &fakeProgress{}

	tests := []struct {
		name      string
		positions PositionSource
		pool      Pool
		progress  ProgressSink
		expected  error
	}{
		{"no position source", nil, pool, progress, ErrNoPositionSource},
		{"no pool", positions, nil, progress, ErrNoPool},
		{"no progress sink", positions, pool, nil, ErrNoProgressSink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(cfg, tt.positions, tt.pool, tt.progress)
			if !errors.Is(err, tt.expected) {
				t.Errorf("NewScheduler() error = %v, expected %v", err, tt.expected)
			}
			if s != nil {
				t.Error("NewScheduler() should not return a scheduler on error")
			}
		})
	}
}

func TestNewSchedulerInvalidConfig(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	cfg.Spawn.SegmentLength = 0

	_, err := NewScheduler(cfg, &fakePositions{}, &fakePool{}, &fakeProgress{})
	if err == nil {
		t.Fatal("NewScheduler() with zero segment length should fail")
	}
}

func TestLookaheadScenario(t *testing.T) {
	s, positions, _, progress, run := newTestScheduler(t, 1)

	s.Start()
	if got := s.State().Segments; got != 3 {
		t.Fatalf("after Start() segments = %d, expected 3", got)
	}

	positions.z = 500
	if n := s.Tick(); n != 7 {
		t.Errorf("Tick() emitted %d segments, expected 7", n)
	}

	expected := []SegmentKind{
		KindStart, KindTower, KindTower, KindTower, KindTower, KindTower,
		KindCheckpoint, KindTransition, KindTower, KindTower,
	}
	if got := run.kinds(); !reflect.DeepEqual(got, expected) {
		t.Errorf("kinds = %v, expected %v", got, expected)
	}
	for i, seg := range run.segments {
		if seg.Index != i {
			t.Errorf("segment %d has index %d", i, seg.Index)
		}
		if seg.Position.Z != float64(i)*75 {
			t.Errorf("segment %d at z=%f, expected %f", i, seg.Position.Z, float64(i)*75)
		}
	}
	if progress.cleared != 6 {
		t.Errorf("cleared = %d, expected 6", progress.cleared)
	}
	if next := s.NextSegmentPosition().Z; next-200 < 500 {
		t.Errorf("next segment at z=%f leaves the lookahead window unfilled", next)
	}
}

func TestCadence(t *testing.T) {
	s, positions, _, _, run := newTestScheduler(t, 2)
	s.Start()
	positions.z = 75 * 300
	s.Tick()

	actual := run.kinds()
	expected := []SegmentKind{KindStart, KindTower}
	towers := 1
	for len(expected) < len(actual) {
		if towers%5 == 0 {
			expected = append(expected, KindCheckpoint, KindTransition)
		}
		expected = append(expected, KindTower)
		towers++
	}
	if !reflect.DeepEqual(actual, expected[:len(actual)]) {
		t.Fatalf("kinds = %v, expected %v", actual, expected[:len(actual)])
	}

	towers = 0
	for i, kind := range actual {
		switch kind {
		case KindTower:
			towers++
		case KindCheckpoint:
			if towers == 0 || towers%5 != 0 {
				t.Errorf("checkpoint at %d after %d towers", i, towers)
			}
			if actual[i+1] != KindTransition || actual[i+2] != KindTower {
				t.Errorf("checkpoint at %d followed by %s, %s", i, actual[i+1], actual[i+2])
			}
		case KindStart:
			if i != 0 {
				t.Errorf("start segment at index %d", i)
			}
		}
	}

	state := s.State()
	if state.Checkpoints != state.Transitions {
		t.Errorf("checkpoints = %d, transitions = %d, expected equal", state.Checkpoints, state.Transitions)
	}
	if state.Towers() != towers {
		t.Errorf("State().Towers() = %d, expected %d", state.Towers(), towers)
	}
}

func TestElevationAccumulates(t *testing.T) {
	s, positions, _, _, run := newTestScheduler(t, 3)
	s.Start()
	positions.z = 75 * 120
	s.Tick()

	transitions := 0
	for _, seg := range run.segments {
		if seg.Position.Y != 5*float64(transitions) {
			t.Fatalf("segment %d at y=%f after %d transitions, expected %f", seg.Index, seg.Position.Y, transitions, 5*float64(transitions))
		}
		if seg.Kind == KindTransition {
			transitions++
		}
	}
	if transitions == 0 {
		t.Fatal("no transitions emitted")
	}
	if s.Elevation() != 5*float64(transitions) {
		t.Errorf("Elevation() = %f, expected %f", s.Elevation(), 5*float64(transitions))
	}
	if s.State().Transitions != transitions {
		t.Errorf("State().Transitions = %d, expected %d", s.State().Transitions, transitions)
	}
}

func TestLevelsFollowCurve(t *testing.T) {
	s, positions, _, _, run := newTestScheduler(t, 4)
	s.Start()
	positions.z = 75 * 60
	s.Tick()

	var prev Level
	for _, seg := range run.segments {
		if seg.Level < prev {
			t.Fatalf("segment %d level %d dropped below %d", seg.Index, seg.Level, prev)
		}
		prev = seg.Level
	}
	if s.Level() != 7 {
		t.Errorf("Level() = %d after %d segments, expected 7", s.Level(), s.State().Segments)
	}
}

func TestTickUnavailablePosition(t *testing.T) {
	tests := []struct {
		name string
		z    float64
		ok   bool
	}{
		{"not available", 10000, false},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, positions, pool, progress, _ := newTestScheduler(t, 5)
			s.Start()
			positions.z = 300
			s.Tick()
			before := s.State()
			acquired := len(pool.objects)
			cleared, calls := progress.cleared, progress.calls

			positions.z = tt.z
			positions.ok = tt.ok
			if n := s.Tick(); n != 0 {
				t.Errorf("Tick() emitted %d segments with position %v", n, tt.z)
			}
			if s.State() != before {
				t.Errorf("State() = %+v, expected %+v", s.State(), before)
			}
			if len(pool.objects) != acquired {
				t.Errorf("acquired %d objects with position %v", len(pool.objects)-acquired, tt.z)
			}
			if progress.calls != calls || progress.cleared != cleared {
				t.Errorf("progress = %d after %d calls, expected %d after %d calls",
					progress.cleared, progress.calls, cleared, calls)
			}
		})
	}
}

func TestStartIgnoresNonFinitePosition(t *testing.T) {
	s, positions, pool, _, _ := newTestScheduler(t, 5)
	positions.z = math.Inf(1)

	s.Start()
	if !s.Started() {
		t.Error("Started() = false after Start()")
	}
	if len(pool.objects) != 0 {
		t.Errorf("Start() acquired %d objects with an infinite position", len(pool.objects))
	}
}

func TestTickBeforeStart(t *testing.T) {
	s, positions, pool, progress, _ := newTestScheduler(t, 6)
	positions.z = 160

	if n := s.Tick(); n != 0 {
		t.Errorf("Tick() before Start() emitted %d segments", n)
	}
	if len(pool.objects) != 0 {
		t.Errorf("acquired %d objects before Start()", len(pool.objects))
	}
	if progress.cleared != 2 {
		t.Errorf("cleared = %d, expected 2", progress.cleared)
	}
	if s.Started() {
		t.Error("Started() = true before Start()")
	}
}

func TestStartTwice(t *testing.T) {
	s, positions, _, _, _ := newTestScheduler(t, 7)
	s.Start()
	before := s.State()

	positions.z = 1000
	s.Start()
	if s.State() != before {
		t.Errorf("second Start() changed state to %+v", s.State())
	}
	if !s.Started() {
		t.Error("Started() = false after Start()")
	}
}

func TestClearedCountClamps(t *testing.T) {
	s, _, _, _, _ := newTestScheduler(t, 8)

	tests := []struct {
		z        float64
		expected int
	}{
		{-100, 0},
		{0, 0},
		{74.9, 0},
		{75, 1},
		{500, 6},
	}

	for _, tt := range tests {
		if got := s.ClearedAt(tt.z); got != tt.expected {
			t.Errorf("ClearedAt(%f) = %d, expected %d", tt.z, got, tt.expected)
		}
	}
}

func TestSchedulerDeterminism(t *testing.T) {
	run := func() []Segment {
		s, positions, _, _, rec := newTestScheduler(t, 42)
		s.Start()
		for z := 0.0; z < 5000; z += 37 {
			positions.z = z
			s.Tick()
		}
		return rec.segments
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different tracks")
	}
}

func TestPlacementsReachPool(t *testing.T) {
	s, positions, pool, _, run := newTestScheduler(t, 9)
	s.Start()
	positions.z = 3000
	s.Tick()

	total := 0
	for _, seg := range run.segments {
		total += len(seg.Placements)
	}
	if len(pool.objects) != total {
		t.Errorf("acquired %d objects, expected %d", len(pool.objects), total)
	}
	if got := pool.count(PlaceTransitionRoad); got != s.State().Transitions {
		t.Errorf("acquired %d transition roads, expected %d", got, s.State().Transitions)
	}
	if got := pool.count(PlaceCheckpoint); got != s.State().Checkpoints {
		t.Errorf("acquired %d checkpoints, expected %d", got, s.State().Checkpoints)
	}
}
