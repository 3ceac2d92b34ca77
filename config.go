package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"squirm-server/game"
)

// Server configuration defaults
const (
	// Server
	DefaultAddr      = ":8080"
	DefaultStaticDir = "./client"
	WebSocketPath    = "/ws"

	// Game loop: one simulation frame per render tick
	DefaultTickRate = 60 // frames per second

	// Arena: full size of the play surface, centered on the origin
	DefaultArenaWidth  = 750.0
	DefaultArenaHeight = 1334.0

	// Connections
	DefaultMaxViewers = 16               // controller plus spectators
	DefaultIPCooldown = 2 * time.Second  // minimum gap between connects from one IP
	MaxMessageBytes   = 1 << 12          // client messages are tiny
	ReadTimeout       = 60 * time.Second // refreshed on every message and pong
	WriteTimeout      = 5 * time.Second
	PingInterval      = 25 * time.Second
)

// Environment overrides, also read from a .env file when present
const (
	EnvAddr      = "SQUIRM_ADDR"
	EnvStaticDir = "SQUIRM_STATIC_DIR"
	EnvSeed      = "SQUIRM_SEED"
	EnvCodec     = "SQUIRM_CODEC"
)

// ServerConfig represents the command-line parameters for the server.
type ServerConfig struct {
	Addr        string
	StaticDir   string
	TickRate    int
	Seed        uint64
	Codec       string
	Autopilot   bool
	ArenaWidth  float64
	ArenaHeight float64
	MaxViewers  int
	IPCooldown  time.Duration
}

// NewServerConfig returns a ServerConfig populated with defaults.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:        DefaultAddr,
		StaticDir:   DefaultStaticDir,
		TickRate:    DefaultTickRate,
		Seed:        uint64(time.Now().UnixNano()),
		Codec:       "json",
		Autopilot:   true,
		ArenaWidth:  DefaultArenaWidth,
		ArenaHeight: DefaultArenaHeight,
		MaxViewers:  DefaultMaxViewers,
		IPCooldown:  DefaultIPCooldown,
	}
}

// LoadEnv reads the given .env files (".env" when none are named) and applies
// environment overrides. Missing files are not an error.
func (c *ServerConfig) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv(EnvCodec); v != "" {
		c.Codec = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", EnvSeed, v, err)
		}
		c.Seed = seed
	}
	return nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *ServerConfig) Bind(set *flag.FlagSet) {
	set.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	set.StringVar(&c.StaticDir, "static", c.StaticDir, "directory of static client files")
	set.IntVar(&c.TickRate, "tps", c.TickRate, "simulation frames per second")
	set.Uint64Var(&c.Seed, "seed", c.Seed, "seed for food placement")
	set.StringVar(&c.Codec, "codec", c.Codec, "outgoing wire codec: json or msgpack")
	set.BoolVar(&c.Autopilot, "autopilot", c.Autopilot, "steer the worm while nobody controls it")
	set.Float64Var(&c.ArenaWidth, "arena-w", c.ArenaWidth, "arena width in scene units")
	set.Float64Var(&c.ArenaHeight, "arena-h", c.ArenaHeight, "arena height in scene units")
	set.IntVar(&c.MaxViewers, "max-viewers", c.MaxViewers, "maximum simultaneous connections")
	set.DurationVar(&c.IPCooldown, "ip-cooldown", c.IPCooldown, "minimum time between connects from one IP (0 disables)")
}

// GameConfig returns the simulation constants for this server.
func (c *ServerConfig) GameConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.ArenaHalfWidth = c.ArenaWidth / 2
	cfg.ArenaHalfHeight = c.ArenaHeight / 2
	return cfg
}

// Validate checks the server-side settings; game settings are checked by game.New.
func (c *ServerConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate %d must be positive", c.TickRate)
	}
	if c.MaxViewers <= 0 {
		return fmt.Errorf("max viewers %d must be positive", c.MaxViewers)
	}
	if _, err := CodecByName(c.Codec); err != nil {
		return err
	}
	return nil
}
