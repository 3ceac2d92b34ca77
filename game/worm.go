package game

import (
	"fmt"
	"slices"
)

// Worm is the player's body, head first. Segments live in a ring buffer: a
// frame of motion overwrites the tail slot with the new head and steps the
// head index back, so every other segment keeps its position and slides one
// slot toward the tail.
type Worm struct {
	segments []Point // ring storage
	start    int     // physical index of the head
	radius   float64 // collision radius of a single node
}

// NewWorm creates a one-segment worm at origin.
func NewWorm(origin Point, radius float64) *Worm {
	return &Worm{
		segments: []Point{origin},
		radius:   radius,
	}
}

// Len returns the number of segments.
func (w *Worm) Len() int {
	return len(w.segments)
}

// Radius returns the node collision radius.
func (w *Worm) Radius() float64 {
	return w.radius
}

func (w *Worm) slot(i int) int {
	return (w.start + i) % len(w.segments)
}

// At returns segment i counted from the head.
func (w *Worm) At(i int) Point {
	if i < 0 || i >= len(w.segments) {
		panic(fmt.Sprintf("worm: segment %d out of range [0,%d)", i, len(w.segments)))
	}
	return w.segments[w.slot(i)]
}

// Head returns the first segment, or false if the worm is empty.
func (w *Worm) Head() (Point, bool) {
	if len(w.segments) == 0 {
		return Point{}, false
	}
	return w.segments[w.start], true
}

// Tail returns the last segment, or false if the worm is empty.
func (w *Worm) Tail() (Point, bool) {
	n := len(w.segments)
	if n == 0 {
		return Point{}, false
	}
	return w.segments[w.slot(n-1)], true
}

// Append adds p after the current tail.
func (w *Worm) Append(p Point) {
	if w.start != 0 {
		// Unroll so the logical tail is the physical end.
		w.segments = slices.Concat(w.segments[w.start:], w.segments[:w.start])
		w.start = 0
	}
	w.segments = append(w.segments, p)
}

// Advance moves the worm one step: the tail is dropped and a new head is
// placed at the old head translated by delta.
func (w *Worm) Advance(delta Point) {
	n := len(w.segments)
	if n == 0 {
		return
	}
	head := w.segments[w.start]
	w.start = (w.start + n - 1) % n
	w.segments[w.start] = head.MovedBy(delta)
}

// CollidesBody reports whether p touches any segment after the first
// ignoreFirst ones, using a square tolerance of radius+tolerance.
func (w *Worm) CollidesBody(p Point, ignoreFirst int, tolerance float64) bool {
	t := w.radius + tolerance
	for i := max(ignoreFirst, 0); i < len(w.segments); i++ {
		if w.segments[w.slot(i)].Collides(p, t) {
			return true
		}
	}
	return false
}

// Reset collapses the worm to a single segment at origin.
func (w *Worm) Reset(origin Point) {
	w.segments = append(w.segments[:0], origin)
	w.start = 0
}

// Points returns a copy of the segments, head first.
func (w *Worm) Points() []Point {
	out := make([]Point, len(w.segments))
	for i := range out {
		out[i] = w.segments[w.slot(i)]
	}
	return out
}
