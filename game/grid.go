package game

import "math"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// gridEntry is one indexed worm segment
type gridEntry struct {
	segIdx int
	x, y   float64
}

// SpatialGrid is a hash grid over worm segments. It answers the same square
// proximity query as Worm.CollidesBody, but only visits the cells around the
// query point, which pays off when many candidate points are tested against
// one body.
type SpatialGrid struct {
	cells    map[cellKey][]gridEntry
	cellSize float64
	count    int
}

// NewSpatialGrid creates an empty spatial grid
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cells:    make(map[cellKey][]gridEntry),
		cellSize: cellSize,
	}
}

// Clear resets all cells
func (g *SpatialGrid) Clear() {
	clear(g.cells)
	g.count = 0
}

// Len returns the number of indexed segments.
func (g *SpatialGrid) Len() int {
	return g.count
}

func (g *SpatialGrid) keyFor(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// InsertWorm indexes every segment of w, remembering its distance from the head.
func (g *SpatialGrid) InsertWorm(w *Worm) {
	for i := 0; i < w.Len(); i++ {
		seg := w.At(i)
		k := g.keyFor(seg.X, seg.Y)
		g.cells[k] = append(g.cells[k], gridEntry{segIdx: i, x: seg.X, y: seg.Y})
		g.count++
	}
}

// Collides reports whether any indexed segment at index >= ignoreFirst lies
// strictly within the square of half-size t around p.
func (g *SpatialGrid) Collides(p Point, ignoreFirst int, t float64) bool {
	minCX := int(math.Floor((p.X - t) / g.cellSize))
	maxCX := int(math.Floor((p.X + t) / g.cellSize))
	minCY := int(math.Floor((p.Y - t) / g.cellSize))
	maxCY := int(math.Floor((p.Y + t) / g.cellSize))

	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				if e.segIdx < ignoreFirst {
					continue
				}
				if p.Collides(Point{X: e.x, Y: e.y}, t) {
					return true
				}
			}
		}
	}
	return false
}
