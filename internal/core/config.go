package core

// RuntimeConfig contains configuration passed to a run at initialization.
// Front-ends use this to adapt to screen size and seed the generator.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed; 0 means derive from the clock in the front-end
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// RunState is a snapshot of a running track session.
type RunState struct {
	Ticks     int     // Simulation ticks since start
	Position  float64 // Player forward position
	Cleared   int     // Segments cleared, as reported to the progress sink
	Segments  int     // Segments spawned so far
	Level     int     // Difficulty level of the most recent segment
	Elevation float64 // Accumulated vertical offset from transitions
	Paused    bool
}
