//go:build ebiten

// Command squirm-local plays the game in a desktop window without a server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"squirm-server/game"
)

var (
	bgColor   = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	headColor = color.RGBA{R: 250, G: 220, B: 90, A: 255}
	bodyColor = color.RGBA{R: 90, G: 200, B: 120, A: 255}
	foodColor = color.RGBA{R: 230, G: 80, B: 80, A: 255}
)

type window struct {
	g     *game.Game
	scale float64
	tps   int

	last     game.Frame
	lastOver string
	paused   bool
}

func (w *window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.paused = !w.paused
	}
	w.readInput()
	if w.paused {
		return nil
	}

	w.last = w.g.Update(1 / float64(w.tps))
	if w.last.Reset != game.ResetNone {
		w.lastOver = fmt.Sprintf("last game: %s, score %d, length %d", w.last.Reset, w.last.FinalScore, w.last.FinalLength)
	}
	return nil
}

// readInput maps arrow keys, the mouse and touches to a steering input.
// Holding left turns toward higher headings.
func (w *window) readInput() {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		w.g.SetSteeringInput(-1)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		w.g.SetSteeringInput(1)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		x, _ := ebiten.CursorPosition()
		w.g.SteerFromPointer(w.sceneX(x))
	default:
		if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
			x, _ := ebiten.TouchPosition(ids[0])
			w.g.SteerFromPointer(w.sceneX(x))
			return
		}
		w.g.ClearSteeringInput()
	}
}

func (w *window) sceneX(px int) float64 {
	return float64(px)/w.scale - w.g.Config().ArenaHalfWidth
}

func (w *window) toScreen(p game.Point) (float32, float32) {
	cfg := w.g.Config()
	return float32((p.X + cfg.ArenaHalfWidth) * w.scale), float32((cfg.ArenaHalfHeight - p.Y) * w.scale)
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	r := float32(w.g.Config().Radius() * w.scale)

	if f := w.last.Food; f != nil {
		x, y := w.toScreen(*f)
		vector.DrawFilledCircle(screen, x, y, r, foodColor, true)
	}
	// tail first so the head stays on top
	for i := len(w.last.Nodes) - 1; i >= 0; i-- {
		x, y := w.toScreen(w.last.Nodes[i])
		c := bodyColor
		if i == 0 {
			c = headColor
		}
		vector.DrawFilledCircle(screen, x, y, r, c, true)
	}

	hud := fmt.Sprintf("score %d  length %d  heading %d  tps %.0f", w.last.Score, len(w.last.Nodes), w.last.Heading, ebiten.ActualTPS())
	if w.paused {
		hud += "  [paused]"
	}
	ebitenutil.DebugPrintAt(screen, hud, 4, 4)
	if w.lastOver != "" {
		ebitenutil.DebugPrintAt(screen, w.lastOver, 4, 20)
	}
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := w.g.Config()
	return int(cfg.ArenaHalfWidth * 2 * w.scale), int(cfg.ArenaHalfHeight * 2 * w.scale)
}

func main() {
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for food placement")
	scale := flag.Float64("scale", 0.5, "window pixels per scene unit")
	tps := flag.Int("tps", 60, "simulation frames per second")
	flag.Parse()

	g, err := game.New(game.DefaultConfig(), *seed)
	if err != nil {
		log.Fatalf("game: %v", err)
	}
	w := &window{g: g, scale: *scale, tps: *tps}
	width, height := w.Layout(0, 0)

	ebiten.SetWindowTitle("squirm")
	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(width, height)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
