package game

import "testing"

func TestCollidesUsesStrictSquareTolerance(t *testing.T) {
	cases := []struct {
		p, q Point
		tol  float64
		want bool
	}{
		{Point{0, 0}, Point{3, 0}, 5, true},
		{Point{0, 0}, Point{5, 0}, 5, false},
		{Point{0, 0}, Point{0, -5}, 5, false},
		{Point{0, 0}, Point{4.9, 4.9}, 5, true}, // corner of the square, outside the circle
		{Point{10, 10}, Point{10, 10}, 0, false},
		{Point{-3, 2}, Point{-1, 1}, 2.5, true},
	}
	for _, c := range cases {
		if got := c.p.Collides(c.q, c.tol); got != c.want {
			t.Fatalf("%v.Collides(%v, %v) = %v, want %v", c.p, c.q, c.tol, got, c.want)
		}
	}
}

func TestMovedBy(t *testing.T) {
	got := Point{1.5, -2}.MovedBy(Point{-0.5, 4})
	if got != (Point{1, 2}) {
		t.Fatalf("MovedBy = %v, want {1 2}", got)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(1.5, -1.0, 1.0); got != 1 {
		t.Fatalf("clamp high = %v, want 1", got)
	}
	if got := clamp(-7, -1, 1); got != -1 {
		t.Fatalf("clamp low = %v, want -1", got)
	}
	if got := clamp(0.25, -1.0, 1.0); got != 0.25 {
		t.Fatalf("clamp inside = %v, want 0.25", got)
	}
}

func TestNormDegrees(t *testing.T) {
	cases := map[int]int{0: 0, 359: 359, 360: 0, 725: 5, -10: 350, -360: 0, -725: 355}
	for in, want := range cases {
		if got := normDegrees(in); got != want {
			t.Fatalf("normDegrees(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestWrapDegrees(t *testing.T) {
	cases := map[float64]float64{0: 0, 190: -170, -190: 170, 180: 180, -180: 180, 540: 180, 45: 45}
	for in, want := range cases {
		if got := wrapDegrees(in); got != want {
			t.Fatalf("wrapDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}
