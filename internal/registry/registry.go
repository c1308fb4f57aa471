// Package registry provides a global registry for driver factories.
// Drivers register themselves in init() functions, allowing the CLI and the
// preview front-ends to pick a position source by ID without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tower-run/internal/config"
	"github.com/vovakirdan/tower-run/internal/core"
)

// Driver moves a vehicle along the track and reports its forward position
// to the generator. Drivers contain pure logic with no front-end dependencies.
type Driver interface {
	// ID returns a unique identifier for this driver (e.g., "cruise").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset places the vehicle at start with the given tunables and seed.
	Reset(cfg config.VehicleConfig, start float64, seed int64)

	// Step advances the vehicle by one tick.
	Step(in core.InputFrame)

	// Position returns the vehicle's true forward position.
	Position() float64

	// ForwardPosition returns the position reported to the generator.
	// ok is false on ticks where the reading is unavailable.
	ForwardPosition() (z float64, ok bool)
}

// DriverInfo contains metadata about a registered driver.
type DriverInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a driver.
type Factory func() Driver

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a driver factory to the registry.
// Panics if a driver with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: driver %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered drivers, sorted by ID.
func List() []DriverInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DriverInfo, 0, len(factories))
	for id := range factories {
		result = append(result, DriverInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new driver by its ID.
func Create(id string) (Driver, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown driver %q", id)
	}

	return f(), nil
}

// Exists checks if a driver with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
