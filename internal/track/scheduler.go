package track

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// SpawnState counts what the scheduler has emitted so far.
type SpawnState struct {
	Segments    int
	Transitions int
	Checkpoints int
}

// Towers returns the number of tower segments emitted.
func (s SpawnState) Towers() int {
	if s.Segments == 0 {
		return 0
	}
	return s.Segments - s.Checkpoints - s.Transitions - 1
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand sets the random source used for layouts and building heights.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(s *Scheduler) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger. Segment emission is logged at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an observer called after each segment is placed.
func WithObserver(obs SegmentObserver) Option {
	return func(s *Scheduler) {
		if obs != nil {
			s.observers = append(s.observers, obs)
		}
	}
}

// WithCurve overrides the difficulty curve derived from the configuration.
func WithCurve(curve DifficultyCurve) Option {
	return func(s *Scheduler) {
		s.curve = &curve
	}
}

// Scheduler keeps the track populated ahead of the player.
// It is driven by Tick and is not safe for concurrent use.
type Scheduler struct {
	cfg       config.TrackConfig
	positions PositionSource
	pool      Pool
	progress  ProgressSink

	curve    *DifficultyCurve
	composer *Composer
	rng      *rand.Rand
	logger   *log.Logger

	observers []SegmentObserver

	started   bool
	spawn     SpawnState
	elevation float64
	level     Level
}

// NewScheduler wires a scheduler to its collaborators.
func NewScheduler(cfg config.TrackConfig, positions PositionSource, pool Pool, progress ProgressSink, opts ...Option) (*Scheduler, error) {
	switch {
	case positions == nil:
		return nil, ErrNoPositionSource
	case pool == nil:
		return nil, ErrNoPool
	case progress == nil:
		return nil, ErrNoProgressSink
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("track: %w", err)
	}

	s := &Scheduler{
		cfg:       cfg,
		positions: positions,
		pool:      pool,
		progress:  progress,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.curve == nil {
		curve := NewDifficultyCurve(cfg.Difficulty)
		s.curve = &curve
	}
	s.composer = NewComposer(cfg, s.rng)
	return s, nil
}

// Start begins spawning and runs an immediate spawn pass.
// Calling it again has no effect.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	s.logger.Info("spawner started",
		"segment_length", s.cfg.Spawn.SegmentLength,
		"lookahead", s.cfg.Spawn.Lookahead,
	)
	if z, ok := s.position(); ok {
		s.spawnUntil(z)
	}
}

// position reads the forward position. NaN and infinite readings count as
// unavailable.
func (s *Scheduler) position() (float64, bool) {
	z, ok := s.positions.ForwardPosition()
	if !ok || math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, false
	}
	return z, true
}

// Tick reports progress and spawns segments until the lookahead window
// is filled. It returns the number of segments emitted.
func (s *Scheduler) Tick() int {
	z, ok := s.position()
	if !ok {
		return 0
	}
	s.progress.SetClearedCount(s.ClearedAt(z))
	if !s.started {
		return 0
	}
	return s.spawnUntil(z)
}

// ClearedAt returns how many whole segments lie behind forward position z.
func (s *Scheduler) ClearedAt(z float64) int {
	n := math.Floor((z - s.cfg.Spawn.Start.Z) / s.cfg.Spawn.SegmentLength)
	if n < 0 {
		return 0
	}
	return int(n)
}

func (s *Scheduler) spawnUntil(z float64) int {
	before := s.spawn.Segments
	for s.NextSegmentPosition().Z-s.cfg.Spawn.Lookahead < z {
		s.spawnNext()
	}
	return s.spawn.Segments - before
}

func (s *Scheduler) spawnNext() {
	level := s.curve.Level(s.spawn.Segments)

	if s.spawn.Segments == 0 {
		s.emit(KindStart, level)
		s.emit(KindTower, level)
		return
	}
	if period := s.cfg.Cadence.TowersPerCheckpoint; s.spawn.Towers()%period == 0 {
		s.emit(KindCheckpoint, level)
		s.emit(KindTransition, level)
	}
	s.emit(KindTower, level)
}

func (s *Scheduler) emit(kind SegmentKind, level Level) {
	seg := s.composer.Compose(kind, level, s.NextSegmentPosition())
	seg.Index = s.spawn.Segments
	s.composer.Place(seg, s.pool)

	switch kind {
	case KindCheckpoint:
		s.spawn.Checkpoints++
	case KindTransition:
		s.spawn.Transitions++
		s.elevation += seg.Rise
	}
	s.spawn.Segments++
	s.level = level

	if seg.Tower != nil {
		s.logger.Debug("segment spawned", "index", seg.Index, "kind", seg.Kind, "level", int(level), "tower", seg.Tower.Type)
	} else {
		s.logger.Debug("segment spawned", "index", seg.Index, "kind", seg.Kind, "level", int(level))
	}
	for _, obs := range s.observers {
		obs.SegmentSpawned(seg)
	}
}

// NextSegmentPosition returns where the next segment will be placed.
func (s *Scheduler) NextSegmentPosition() core.Vec3 {
	return s.cfg.Spawn.Start.Add(core.V3(0, s.elevation, float64(s.spawn.Segments)*s.cfg.Spawn.SegmentLength))
}

// State returns a copy of the spawn counters.
func (s *Scheduler) State() SpawnState { return s.spawn }

// Elevation returns the accumulated transition rise.
func (s *Scheduler) Elevation() float64 { return s.elevation }

// Level returns the level of the most recently emitted segment.
func (s *Scheduler) Level() Level { return s.level }

// Started reports whether Start has been called.
func (s *Scheduler) Started() bool { return s.started }

// Curve returns the difficulty curve in use.
func (s *Scheduler) Curve() DifficultyCurve { return *s.curve }
