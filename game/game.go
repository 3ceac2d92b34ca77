// Package game is the squirm simulation: a continuously curving worm that
// steers left and right, grows by eating food and soft-resets when it hits a
// wall or itself. The package does no I/O; a driver calls Update once per
// frame and renders the returned Frame.
package game

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
)

// ResetCause says why a frame ended in a game over.
type ResetCause uint8

const (
	ResetNone ResetCause = iota
	ResetBoundary
	ResetSelf
)

func (c ResetCause) String() string {
	switch c {
	case ResetBoundary:
		return "boundary"
	case ResetSelf:
		return "self"
	default:
		return "none"
	}
}

// Frame is the snapshot produced by one Update call. Nodes and Food are
// copies; renderers may keep them.
type Frame struct {
	Number  uint64
	DT      float64 // seconds since the previous frame, as passed to Update
	Nodes   []Point // head first
	Food    *Point  // nil when no food is active
	Score   int
	Heading int

	Ate           bool       // food was eaten this frame
	Spawned       bool       // food appeared this frame
	SpawnFallback bool       // the spawn came from the lattice fallback
	Reset         ResetCause // game over cause, ResetNone on a normal frame
	FinalScore    int        // score at the moment of the reset
	FinalLength   int        // worm length at the moment of the reset
}

// Game owns the whole state of one play session. Update must be called
// from a single goroutine; the steering setters may be called from any.
type Game struct {
	cfg      Config
	worm     *Worm
	steering *Steering
	spawner  *foodSpawner

	food        *Food
	foodCounter int
	score       int
	frame       uint64

	// input latch, written by the input side, read once per frame
	inputBits atomic.Uint64
	held      atomic.Bool
	pressEdge atomic.Bool
}

// New validates cfg and returns a fresh session seeded for food placement.
func New(cfg Config, seed uint64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	return &Game{
		cfg:      cfg,
		worm:     NewWorm(Point{}, cfg.Radius()),
		steering: NewSteering(cfg),
		spawner:  newFoodSpawner(cfg, rng),
	}, nil
}

// Config returns the session constants.
func (g *Game) Config() Config { return g.cfg }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// FrameNumber returns the number of frames simulated so far.
func (g *Game) FrameNumber() uint64 { return g.frame }

// Worm exposes the body for read access.
func (g *Game) Worm() *Worm { return g.worm }

// Steering exposes the steering model for read access.
func (g *Game) Steering() *Steering { return g.steering }

// FoodCounter returns the frames counted toward the next spawn.
func (g *Game) FoodCounter() int { return g.foodCounter }

// Food returns the active food position.
func (g *Game) Food() (Point, bool) {
	if g.food == nil {
		return Point{}, false
	}
	return g.food.Position, true
}

// SetSteeringInput records a press or move with value clamped to [-1,1].
// NaN is stored as 0.
func (g *Game) SetSteeringInput(v float64) {
	g.inputBits.Store(math.Float64bits(clampUnit(v)))
	if !g.held.Swap(true) {
		g.pressEdge.Store(true)
	}
}

// SteerFromPointer maps a pointer x offset in scene units to a steering input.
func (g *Game) SteerFromPointer(x float64) {
	g.SetSteeringInput(x / g.cfg.ControlBounds)
}

// ClearSteeringInput records a release.
func (g *Game) ClearSteeringInput() {
	g.inputBits.Store(math.Float64bits(0))
	g.held.Store(false)
}

// Update advances one frame. Motion is frame-discrete, so dt does not scale
// anything; it is reported back in Frame.DT for pacing diagnostics.
//
// Order: latch input, grow, move, collide (against the moved head), food
// timer, steering. A game over ends the frame right after the reset.
func (g *Game) Update(dt float64) Frame {
	g.frame++
	g.latchInput()
	fr := Frame{Number: g.frame, DT: dt}

	if g.worm.Len() == 0 {
		return g.snapshot(fr)
	}

	g.checkGrowth()
	g.worm.Advance(g.steering.NextDisplacement())

	if cause := g.checkCollision(); cause != ResetNone {
		fr.Reset = cause
		fr.FinalScore = g.score
		fr.FinalLength = g.worm.Len()
		g.gameOver()
		return g.snapshot(fr)
	}
	fr.Ate = g.checkFood()
	fr.Spawned, fr.SpawnFallback = g.incrementFood()
	g.steering.Step()

	return g.snapshot(fr)
}

func (g *Game) latchInput() {
	g.steering.SetInput(math.Float64frombits(g.inputBits.Load()))
	if g.pressEdge.Swap(false) {
		g.steering.Press()
	}
}

func (g *Game) checkGrowth() {
	target := g.score + g.cfg.StartNodes
	if target <= g.worm.Len() {
		return
	}
	if tail, ok := g.worm.Tail(); ok {
		g.worm.Append(tail)
	}
}

func (g *Game) checkCollision() ResetCause {
	head, ok := g.worm.Head()
	if !ok {
		return ResetNone
	}
	r := g.cfg.Radius()
	if math.Abs(head.X) > g.cfg.ArenaHalfWidth-r || math.Abs(head.Y) > g.cfg.ArenaHalfHeight-r {
		return ResetBoundary
	}
	if g.worm.CollidesBody(head, g.cfg.StartNodes, 0) {
		return ResetSelf
	}
	return ResetNone
}

func (g *Game) checkFood() bool {
	if g.food == nil {
		return false
	}
	head, ok := g.worm.Head()
	if !ok || !head.Collides(g.food.Position, g.cfg.FoodTolerance) {
		return false
	}
	g.food = nil
	g.foodCounter = 0
	g.score += g.cfg.ScoreIncrement
	return true
}

// incrementFood counts idle frames and spawns food once FoodTime is reached.
func (g *Game) incrementFood() (spawned, fallback bool) {
	if g.food != nil {
		return false, false
	}
	g.foodCounter++
	if g.foodCounter < g.cfg.FoodTime {
		return false, false
	}
	g.foodCounter = 0

	p, ok, fallback := g.spawner.spawn(g.worm)
	if !ok {
		return false, fallback
	}
	g.food = &Food{Position: p}
	return true, fallback
}

func (g *Game) gameOver() {
	g.worm.Reset(Point{})
	g.food = nil
	g.foodCounter = 0
	g.score = 0
}

func (g *Game) snapshot(fr Frame) Frame {
	fr.Nodes = g.worm.Points()
	if g.food != nil {
		p := g.food.Position
		fr.Food = &p
	}
	fr.Score = g.score
	fr.Heading = g.steering.Heading()
	return fr
}
