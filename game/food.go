package game

import (
	"math"
	"math/rand/v2"
)

// Food is the single collectible item. At most one exists at a time.
type Food struct {
	Position Point
}

// foodSpawner picks food positions that keep clear of the worm. Samples are
// whole coordinates drawn uniformly from the configured square; after
// MaxSpawnAttempts rejected samples it falls back to the free lattice point
// nearest the last sample.
type foodSpawner struct {
	cfg  Config
	rng  *rand.Rand
	grid *SpatialGrid
}

func newFoodSpawner(cfg Config, rng *rand.Rand) *foodSpawner {
	return &foodSpawner{
		cfg:  cfg,
		rng:  rng,
		grid: NewSpatialGrid(2 * (cfg.Radius() + cfg.FoodSpawnClearance)),
	}
}

// spawn returns a free position. ok is false when the worm covers every
// lattice point of the spawn square; fallback reports that random sampling
// gave up.
func (fs *foodSpawner) spawn(w *Worm) (p Point, ok, fallback bool) {
	var last Point
	for i := 0; i < fs.cfg.MaxSpawnAttempts; i++ {
		last = fs.sample()
		if !w.CollidesBody(last, 0, fs.cfg.FoodSpawnClearance) {
			return last, true, false
		}
	}
	p, ok = fs.nearestFree(w, last)
	return p, ok, true
}

func (fs *foodSpawner) sample() Point {
	lo := math.Ceil(fs.cfg.FoodSpawnMin)
	span := int(math.Floor(fs.cfg.FoodSpawnMax)-lo) + 1
	return Point{
		X: lo + float64(fs.rng.IntN(span)),
		Y: lo + float64(fs.rng.IntN(span)),
	}
}

// nearestFree scans the spawn square on a NodeDiameter lattice.
func (fs *foodSpawner) nearestFree(w *Worm, near Point) (Point, bool) {
	fs.grid.Clear()
	fs.grid.InsertWorm(w)

	t := w.Radius() + fs.cfg.FoodSpawnClearance
	lo := math.Ceil(fs.cfg.FoodSpawnMin)
	hi := math.Floor(fs.cfg.FoodSpawnMax)
	step := fs.cfg.NodeDiameter

	var best Point
	bestDist := math.Inf(1)
	found := false
	for x := lo; x <= hi; x += step {
		for y := lo; y <= hi; y += step {
			p := Point{X: x, Y: y}
			if fs.grid.Collides(p, 0, t) {
				continue
			}
			dx := p.X - near.X
			dy := p.Y - near.Y
			if d := dx*dx + dy*dy; d < bestDist {
				best, bestDist, found = p, d, true
			}
		}
	}
	return best, found
}
