package game

import (
	"errors"
	"fmt"
	"math"
)

// Default tuning constants
const (
	// Score & growth
	DefaultScoreIncrement = 5  // points per food, also segments gained per food
	DefaultStartNodes     = 10 // starting length, also the self-collision exempt prefix

	// Worm
	DefaultNodeDiameter = 20.0 // scene units

	// Food
	DefaultFoodTime           = 100   // frames without food before the next spawn
	DefaultFoodSpawnMin       = 0.0   // spawn square lower bound (both axes)
	DefaultFoodSpawnMax       = 150.0 // spawn square upper bound (both axes)
	DefaultFoodSpawnClearance = 20.0  // extra tolerance around worm segments when spawning
	DefaultMaxSpawnAttempts   = 64    // random samples before the lattice fallback

	// Steering
	DefaultSpeedFactor      = 4.0  // scene units per frame
	DefaultTurnFactor       = 6.0  // degrees per frame at full lock
	DefaultAccelerationRate = 0.1  // turn accelerator change per frame
	DefaultOscillationRate  = 0.05 // idle wobble, cycles per frame
	DefaultControlBounds    = 200.0
	DefaultInitialHeading   = 90 // degrees, straight up

	// Arena: half extents of the rendering surface, origin at the center
	DefaultArenaHalfWidth  = 375.0
	DefaultArenaHalfHeight = 667.0

	// Steering inputs at or below this magnitude count as neutral
	inputDeadzone = 0.1
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid game config")

// Config holds every constant the simulation reads. It is fixed for the
// lifetime of a Game.
type Config struct {
	ScoreIncrement int
	StartNodes     int
	NodeDiameter   float64

	FoodTime           int
	FoodTolerance      float64 // head-to-food proximity for eating
	FoodSpawnMin       float64
	FoodSpawnMax       float64
	FoodSpawnClearance float64
	MaxSpawnAttempts   int

	SpeedFactor      float64
	TurnFactor       float64
	AccelerationRate float64
	OscillationRate  float64
	ControlBounds    float64
	InitialHeading   int

	Oscillate               bool // wobble the heading while neutral
	DynamicControl          bool // scale turning by input magnitude
	ResetOscillationOnPress bool // restart the wobble phase on a fresh press

	ArenaHalfWidth  float64
	ArenaHalfHeight float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		ScoreIncrement:          DefaultScoreIncrement,
		StartNodes:              DefaultStartNodes,
		NodeDiameter:            DefaultNodeDiameter,
		FoodTime:                DefaultFoodTime,
		FoodTolerance:           DefaultNodeDiameter,
		FoodSpawnMin:            DefaultFoodSpawnMin,
		FoodSpawnMax:            DefaultFoodSpawnMax,
		FoodSpawnClearance:      DefaultFoodSpawnClearance,
		MaxSpawnAttempts:        DefaultMaxSpawnAttempts,
		SpeedFactor:             DefaultSpeedFactor,
		TurnFactor:              DefaultTurnFactor,
		AccelerationRate:        DefaultAccelerationRate,
		OscillationRate:         DefaultOscillationRate,
		ControlBounds:           DefaultControlBounds,
		InitialHeading:          DefaultInitialHeading,
		Oscillate:               true,
		DynamicControl:          true,
		ResetOscillationOnPress: true,
		ArenaHalfWidth:          DefaultArenaHalfWidth,
		ArenaHalfHeight:         DefaultArenaHalfHeight,
	}
}

// Radius is half the node diameter.
func (c Config) Radius() float64 {
	return c.NodeDiameter / 2
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.ScoreIncrement < 0:
		return fmt.Errorf("score increment %d is negative: %w", c.ScoreIncrement, ErrInvalidConfig)
	case c.StartNodes < 1:
		return fmt.Errorf("start nodes %d must be at least 1: %w", c.StartNodes, ErrInvalidConfig)
	case c.NodeDiameter <= 0:
		return fmt.Errorf("node diameter %.2f must be positive: %w", c.NodeDiameter, ErrInvalidConfig)
	case c.FoodTime < 1:
		return fmt.Errorf("food time %d must be at least 1 frame: %w", c.FoodTime, ErrInvalidConfig)
	case c.FoodTolerance < 0 || c.FoodSpawnClearance < 0:
		return fmt.Errorf("food tolerances must not be negative: %w", ErrInvalidConfig)
	case c.MaxSpawnAttempts < 1:
		return fmt.Errorf("max spawn attempts %d must be at least 1: %w", c.MaxSpawnAttempts, ErrInvalidConfig)
	case c.SpeedFactor <= 0:
		return fmt.Errorf("speed factor %.2f must be positive: %w", c.SpeedFactor, ErrInvalidConfig)
	case c.TurnFactor < 0:
		return fmt.Errorf("turn factor %.2f is negative: %w", c.TurnFactor, ErrInvalidConfig)
	case c.AccelerationRate <= 0 || c.AccelerationRate > 1:
		return fmt.Errorf("acceleration rate %.3f outside (0,1]: %w", c.AccelerationRate, ErrInvalidConfig)
	case c.OscillationRate < 0 || c.OscillationRate > 1:
		return fmt.Errorf("oscillation rate %.3f outside [0,1]: %w", c.OscillationRate, ErrInvalidConfig)
	case c.ControlBounds <= 0:
		return fmt.Errorf("control bounds %.2f must be positive: %w", c.ControlBounds, ErrInvalidConfig)
	case c.ArenaHalfWidth <= c.Radius() || c.ArenaHalfHeight <= c.Radius():
		return fmt.Errorf("arena %.0fx%.0f too small for node diameter %.0f: %w",
			c.ArenaHalfWidth*2, c.ArenaHalfHeight*2, c.NodeDiameter, ErrInvalidConfig)
	case math.Ceil(c.FoodSpawnMin) > math.Floor(c.FoodSpawnMax):
		return fmt.Errorf("food spawn range [%.2f,%.2f] holds no whole coordinate: %w", c.FoodSpawnMin, c.FoodSpawnMax, ErrInvalidConfig)
	}

	// Food must be reachable without touching a wall.
	limitX := c.ArenaHalfWidth - c.Radius()
	limitY := c.ArenaHalfHeight - c.Radius()
	for _, v := range []float64{c.FoodSpawnMin, c.FoodSpawnMax} {
		if math.Abs(v) > limitX || math.Abs(v) > limitY {
			return fmt.Errorf("food spawn range [%.0f,%.0f] leaves the arena: %w", c.FoodSpawnMin, c.FoodSpawnMax, ErrInvalidConfig)
		}
	}
	return nil
}
