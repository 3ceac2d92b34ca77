package game

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if r := DefaultConfig().Radius(); r != 10 {
		t.Fatalf("radius %v, want 10", r)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"start nodes":        func(c *Config) { c.StartNodes = 0 },
		"diameter":           func(c *Config) { c.NodeDiameter = 0 },
		"food time":          func(c *Config) { c.FoodTime = 0 },
		"attempts":           func(c *Config) { c.MaxSpawnAttempts = 0 },
		"speed":              func(c *Config) { c.SpeedFactor = -1 },
		"accel rate":         func(c *Config) { c.AccelerationRate = 1.5 },
		"control bounds":     func(c *Config) { c.ControlBounds = 0 },
		"tiny arena":         func(c *Config) { c.ArenaHalfWidth = 5 },
		"spawn outside":      func(c *Config) { c.FoodSpawnMax = 700 },
		"empty spawn square": func(c *Config) { c.FoodSpawnMin, c.FoodSpawnMax = 0.2, 0.8 },
		"negative clearance": func(c *Config) { c.FoodSpawnClearance = -1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: Validate() = %v, want ErrInvalidConfig", name, err)
		}
	}
}
