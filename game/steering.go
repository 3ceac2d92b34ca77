package game

import "math"

// accelEpsilon absorbs float drift when the turn accelerator decays in
// AccelerationRate steps, so it lands on zero after exactly ceil(1/rate) frames.
const accelEpsilon = 1e-9

// Steering converts a steering scalar into a heading using a small
// acceleration model: holding a direction builds turning momentum, letting go
// bleeds it off and, optionally, wobbles the heading.
//
// Every field is normalised or clamped at the point of assignment.
type Steering struct {
	cfg Config

	heading int     // degrees, [0,360)
	phase   int     // oscillation phase in degrees, [0,360)
	accel   float64 // turn accelerator, [-1,1]
	input   float64 // steering input, [-1,1]
}

// NewSteering returns a neutral steering model facing cfg.InitialHeading.
func NewSteering(cfg Config) *Steering {
	s := &Steering{cfg: cfg}
	s.setHeading(cfg.InitialHeading)
	return s
}

// Heading returns the direction of travel in degrees.
func (s *Steering) Heading() int { return s.heading }

// Phase returns the oscillation phase in degrees.
func (s *Steering) Phase() int { return s.phase }

// Accel returns the turn accelerator.
func (s *Steering) Accel() float64 { return s.accel }

// Input returns the current steering input.
func (s *Steering) Input() float64 { return s.input }

// SetInput stores v clamped to [-1,1]. NaN counts as neutral.
func (s *Steering) SetInput(v float64) {
	s.input = clampUnit(v)
}

// Press marks the start of a new touch. The wobble restarts from zero when
// the config asks for it.
func (s *Steering) Press() {
	if s.cfg.ResetOscillationOnPress {
		s.setPhase(0)
	}
}

func (s *Steering) setHeading(d int) { s.heading = normDegrees(d) }

func (s *Steering) setPhase(d int) { s.phase = normDegrees(d) }

func (s *Steering) setAccel(v float64) { s.accel = clampUnit(v) }

// Step advances the model by one frame and returns the heading change applied.
func (s *Steering) Step() int {
	turn := s.cfg.TurnFactor
	rate := s.cfg.AccelerationRate
	delta := 0

	if math.Abs(s.input) > inputDeadzone {
		controlFactor, turnScale := 1.0, turn
		if s.cfg.DynamicControl {
			controlFactor = math.Abs(s.input)
			turnScale = turn * 1.5
		}
		// Negative input pushes the accelerator positive.
		if s.input < 0 {
			s.setAccel(s.accel + rate)
		} else {
			s.setAccel(s.accel - rate)
		}
		delta = int(math.Floor(s.accel * turnScale * controlFactor))
	} else {
		if s.cfg.Oscillate {
			s.setPhase(s.phase + int(math.Round(s.cfg.OscillationRate*360)))
			delta = int(math.Floor(turn / 2 * math.Sin(radians(s.phase))))
		}
		switch {
		case math.Abs(s.accel) <= rate+accelEpsilon:
			s.setAccel(0)
		case s.accel > 0:
			s.setAccel(s.accel - rate)
		default:
			s.setAccel(s.accel + rate)
		}
	}

	s.setHeading(s.heading + delta)
	return delta
}

// NextDisplacement returns one frame of head motion along the heading.
func (s *Steering) NextDisplacement() Point {
	rad := radians(s.heading)
	return Point{
		X: math.Cos(rad) * s.cfg.SpeedFactor,
		Y: math.Sin(rad) * s.cfg.SpeedFactor,
	}
}
