package game

import (
	"math"
	"math/rand/v2"
)

// Autopilot tuning
const (
	AutopilotBoundaryBuffer = 120.0 // steer for the center when this close to a wall
	AutopilotDangerRadius   = 60.0  // own body segments closer than this ahead trigger avoidance
	AutopilotFullLock       = 45.0  // heading error in degrees that maps to full steering input
	autopilotWanderMin      = 60    // frames
	autopilotWanderMax      = 120   // frames
)

// Autopilot produces steering input for an unattended worm, in the same
// place a touch handler would. Rules are checked in priority order: walls,
// own body, food, wandering.
type Autopilot struct {
	cfg         Config
	rng         *rand.Rand
	wanderTicks int     // frames remaining before picking a new wander heading
	target      float64 // heading in degrees the autopilot is steering toward
}

// NewAutopilot creates an autopilot with its own wander randomness.
func NewAutopilot(cfg Config, seed uint64) *Autopilot {
	return &Autopilot{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, 1)),
		target: float64(cfg.InitialHeading),
	}
}

// Decide returns the steering input for the frame following fr.
func (a *Autopilot) Decide(fr Frame) float64 {
	if len(fr.Nodes) == 0 {
		return 0
	}
	head := fr.Nodes[0]
	heading := float64(fr.Heading)

	// --- Priority 1: walls ---
	if math.Abs(head.X) > a.cfg.ArenaHalfWidth-AutopilotBoundaryBuffer ||
		math.Abs(head.Y) > a.cfg.ArenaHalfHeight-AutopilotBoundaryBuffer {
		a.target = degreesTo(head, Point{})
		a.wanderTicks = a.wanderDuration()
		return steerToward(a.target - heading)
	}

	// --- Priority 2: own body ahead ---
	for i := a.cfg.StartNodes; i < len(fr.Nodes); i++ {
		seg := fr.Nodes[i]
		dx := seg.X - head.X
		dy := seg.Y - head.Y
		if dx*dx+dy*dy > AutopilotDangerRadius*AutopilotDangerRadius {
			continue
		}
		diff := wrapDegrees(degreesTo(head, seg) - heading)
		if math.Abs(diff) < 45 {
			// Turn away from the side the segment is on.
			if diff >= 0 {
				a.target = heading - 90
			} else {
				a.target = heading + 90
			}
			a.wanderTicks = a.wanderDuration()
			return steerToward(a.target - heading)
		}
	}

	// --- Priority 3: food ---
	if fr.Food != nil {
		a.target = degreesTo(head, *fr.Food)
		return steerToward(a.target - heading)
	}

	// --- Priority 4: wander ---
	if a.wanderTicks <= 0 {
		a.target = a.rng.Float64() * 360
		a.wanderTicks = a.wanderDuration()
	}
	a.wanderTicks--
	return steerToward(a.target - heading)
}

func (a *Autopilot) wanderDuration() int {
	return autopilotWanderMin + a.rng.IntN(autopilotWanderMax-autopilotWanderMin+1)
}

// steerToward maps a heading error to an input. Negative input raises the
// heading, so the sign flips.
func steerToward(errDeg float64) float64 {
	return -clampUnit(wrapDegrees(errDeg) / AutopilotFullLock)
}

// degreesTo returns the direction from p to q in degrees.
func degreesTo(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X) * 180 / math.Pi
}
