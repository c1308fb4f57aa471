// Package session runs one track: a driver feeding the generator, the
// object pool it fills and the progress the player has made.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
	"github.com/vovakirdan/tower-run/internal/logging"
	"github.com/vovakirdan/tower-run/internal/pool"
	"github.com/vovakirdan/tower-run/internal/registry"
	"github.com/vovakirdan/tower-run/internal/track"
)

// ErrNoDriver is returned when a session is created without a driver.
var ErrNoDriver = errors.New("session: driver is required")

// Summary describes a finished or running session.
type Summary struct {
	Seed        int64
	Driver      string
	Ticks       int
	Distance    float64
	Cleared     int
	Segments    int
	Checkpoints int
	Transitions int
	MaxLevel    int
	Elevation   float64
	Towers      map[track.TowerType]int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger handed to the generator.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an additional segment observer.
func WithObserver(obs track.SegmentObserver) Option {
	return func(s *Session) {
		if obs != nil {
			s.observers = append(s.observers, obs)
		}
	}
}

// Session is a single run. It is driven by Step and is not safe for
// concurrent use.
type Session struct {
	cfg       config.TrackConfig
	driver    registry.Driver
	pool      *pool.Pool
	scheduler *track.Scheduler
	logger    *log.Logger
	observers []track.SegmentObserver

	seed      int64
	ticks     int
	cleared   int
	paused    bool
	towers    map[track.TowerType]int
	lastTower track.TowerType
}

// New creates a session and starts its generator.
func New(cfg config.TrackConfig, driver registry.Driver, seed int64, opts ...Option) (*Session, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}
	s := &Session{
		cfg:    cfg,
		driver: driver,
		pool:   pool.New(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset restarts the run with a new seed.
func (s *Session) Reset(seed int64) error {
	s.seed = seed
	s.ticks = 0
	s.cleared = 0
	s.paused = false
	s.towers = make(map[track.TowerType]int)
	s.lastTower = track.TowerLow

	s.pool.Reset()
	s.driver.Reset(s.cfg.Vehicle, s.cfg.Spawn.Start.Z, seed)

	opts := []track.Option{
		track.WithSeed(seed),
		track.WithLogger(s.logger),
		track.WithObserver(track.ObserverFunc(s.segmentSpawned)),
	}
	for _, obs := range s.observers {
		opts = append(opts, track.WithObserver(obs))
	}

	scheduler, err := track.NewScheduler(s.cfg, s.driver, s.pool, s, opts...)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.scheduler = scheduler
	s.scheduler.Start()
	return nil
}

func (s *Session) segmentSpawned(seg track.Segment) {
	if seg.Tower != nil {
		s.towers[seg.Tower.Type]++
		s.lastTower = seg.Tower.Type
	}
}

// SetClearedCount receives progress from the generator.
func (s *Session) SetClearedCount(n int) {
	s.cleared = n
}

// Step advances the run by one tick and returns the number of segments
// the generator emitted. The pause action toggles the simulation.
func (s *Session) Step(in core.InputFrame) int {
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if s.paused {
		return 0
	}

	s.ticks++
	s.driver.Step(in)
	n := s.scheduler.Tick()
	s.pool.Recycle(s.driver.Position() - s.cfg.Spawn.SegmentLength)
	return n
}

// State returns a snapshot for front-ends.
func (s *Session) State() core.RunState {
	return core.RunState{
		Ticks:     s.ticks,
		Position:  s.driver.Position(),
		Cleared:   s.cleared,
		Segments:  s.scheduler.State().Segments,
		Level:     int(s.scheduler.Level()),
		Elevation: s.scheduler.Elevation(),
		Paused:    s.paused,
	}
}

// Summary returns the run totals.
func (s *Session) Summary() Summary {
	spawn := s.scheduler.State()
	towers := make(map[track.TowerType]int, len(s.towers))
	for t, n := range s.towers {
		towers[t] = n
	}
	return Summary{
		Seed:        s.seed,
		Driver:      s.driver.ID(),
		Ticks:       s.ticks,
		Distance:    s.driver.Position() - s.cfg.Spawn.Start.Z,
		Cleared:     s.cleared,
		Segments:    spawn.Segments,
		Checkpoints: spawn.Checkpoints,
		Transitions: spawn.Transitions,
		MaxLevel:    int(s.scheduler.Level()),
		Elevation:   s.scheduler.Elevation(),
		Towers:      towers,
	}
}

// Seed returns the seed of the current run.
func (s *Session) Seed() int64 { return s.seed }

// Driver returns the session's driver.
func (s *Session) Driver() registry.Driver { return s.driver }

// Pool returns the object pool.
func (s *Session) Pool() *pool.Pool { return s.pool }

// Config returns the track configuration.
func (s *Session) Config() config.TrackConfig { return s.cfg }
