package game

import "testing"

func TestSteerTowardSign(t *testing.T) {
	cases := []struct {
		err  float64
		want float64
	}{
		{0, 0},
		{90, -1},
		{-90, 1},
		{22.5, -0.5},
		{350, 10.0 / 45},
		{-200, -1},
	}
	for _, c := range cases {
		got := steerToward(c.err)
		if got-c.want > 1e-9 || c.want-got > 1e-9 {
			t.Fatalf("steerToward(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestAutopilotTurnsAwayFromWall(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAutopilot(cfg, 1)
	// facing the right wall, close to it
	fr := Frame{Nodes: []Point{{X: 300, Y: 0}}, Heading: 0}
	if in := a.Decide(fr); in != -1 {
		t.Fatalf("input %v near wall, want full lock -1", in)
	}
}

func TestAutopilotSeeksFood(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAutopilot(cfg, 1)
	food := Point{X: 100, Y: 0}
	fr := Frame{Nodes: []Point{{}}, Heading: 90, Food: &food}
	// food is clockwise of the heading, which needs positive input
	if in := a.Decide(fr); in != 1 {
		t.Fatalf("input %v toward food, want 1", in)
	}
}

func TestAutopilotAvoidsOwnBody(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAutopilot(cfg, 1)
	nodes := make([]Point, cfg.StartNodes+1)
	nodes[0] = Point{}
	for i := 1; i < cfg.StartNodes; i++ {
		nodes[i] = Point{Y: -4 * float64(i)}
	}
	// a far body segment just ahead and slightly left of the head
	nodes[cfg.StartNodes] = Point{X: -10, Y: 30}
	food := Point{X: -10, Y: 100}
	fr := Frame{Nodes: nodes, Heading: 90, Food: &food}

	// segment is on the high-heading side, so turn toward lower heading
	if in := a.Decide(fr); in <= 0 {
		t.Fatalf("input %v, want positive to turn away from body", in)
	}
}

func TestAutopilotIdleWithoutWorm(t *testing.T) {
	a := NewAutopilot(DefaultConfig(), 1)
	if in := a.Decide(Frame{}); in != 0 {
		t.Fatalf("input %v for empty frame, want 0", in)
	}
}

func TestAutopilotDrivesGame(t *testing.T) {
	cfg := DefaultConfig()
	g, err := New(cfg, 11)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := NewAutopilot(cfg, 11)
	fr := g.Update(0)
	for i := 0; i < 3000; i++ {
		in := a.Decide(fr)
		if in < -1 || in > 1 {
			t.Fatalf("frame %d: input %v out of range", i, in)
		}
		g.SetSteeringInput(in)
		fr = g.Update(0)
	}
	if g.FrameNumber() != 3001 {
		t.Fatalf("frame number %d, want 3001", g.FrameNumber())
	}
}
