package main

import (
	"context"
	"log"
	"sync"
	"time"

	"squirm-server/game"
)

// GameLoop drives one play session at a fixed frame rate and streams every
// frame to the connected clients. At most one client steers; the rest watch.
type GameLoop struct {
	game      *game.Game
	conns     *ConnManager
	autopilot *game.Autopilot // nil when disabled
	tickRate  int

	mu         sync.Mutex
	controller string // client ID steering the worm, "" when nobody is

	last game.Frame // only touched by the loop goroutine
}

// NewGameLoop creates a game loop bound to a session and conn manager.
func NewGameLoop(g *game.Game, conns *ConnManager, autopilot *game.Autopilot, tickRate int) *GameLoop {
	return &GameLoop{
		game:      g,
		conns:     conns,
		autopilot: autopilot,
		tickRate:  tickRate,
	}
}

// Run starts the fixed-timestep loop. Blocks until ctx is cancelled.
func (gl *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(gl.tickRate))
	defer ticker.Stop()
	log.Printf("game loop started at %d frames/sec", gl.tickRate)

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("game loop stopped after %d frames", gl.game.FrameNumber())
			return ctx.Err()
		case now := <-ticker.C:
			gl.tick(now.Sub(prev).Seconds())
			prev = now
		}
	}
}

// tick executes a single frame
func (gl *GameLoop) tick(dt float64) {
	// 1. Unattended worm: the autopilot takes the place of the touch handler
	if gl.autopilot != nil && gl.Controller() == "" {
		gl.game.SetSteeringInput(gl.autopilot.Decide(gl.last))
	}

	// 2. Advance the simulation
	fr := gl.game.Update(dt)
	gl.last = fr

	// 3. Report notable events
	if fr.Reset != game.ResetNone {
		log.Printf("game over (%s) at frame %d: score %d, length %d", fr.Reset, fr.Number, fr.FinalScore, fr.FinalLength)
		gl.broadcast(NewGameOverMsg(fr))
	}
	if fr.SpawnFallback {
		if fr.Spawned {
			log.Printf("food spawn fell back to lattice at frame %d", fr.Number)
		} else {
			log.Printf("no free spot for food at frame %d, worm length %d", fr.Number, len(fr.Nodes))
		}
	}

	// 4. Stream the frame
	gl.broadcast(NewStateMsg(fr))
}

// broadcast sends msg to every client, dropping the ones that fail.
func (gl *GameLoop) broadcast(msg any) {
	var failed []Client
	for _, c := range gl.conns.Snapshot() {
		if err := c.Send(msg); err != nil {
			log.Printf("send error to %s: %v", c.ID(), err)
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		gl.Disconnect(c)
		c.Close()
	}
}

// Controller returns the ID of the steering client, "" when nobody steers.
func (gl *GameLoop) Controller() string {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	return gl.controller
}

// Welcome builds the welcome message for c.
func (gl *GameLoop) Welcome(c Client) WelcomeMsg {
	cfg := gl.game.Config()
	ctl := 0
	if gl.Controller() == c.ID() {
		ctl = 1
	}
	return WelcomeMsg{
		Type:         MsgWelcome,
		ID:           c.ID(),
		Controller:   ctl,
		HalfWidth:    cfg.ArenaHalfWidth,
		HalfHeight:   cfg.ArenaHalfHeight,
		NodeDiameter: cfg.NodeDiameter,
		TickRate:     gl.tickRate,
	}
}

// HandleMessage applies one client message. Safe to call from read loops.
func (gl *GameLoop) HandleMessage(c Client, msg ClientMessage) {
	switch msg.Type {
	case MsgJoin:
		// A client dropped by a failed broadcast may still be reading.
		if _, ok := gl.conns.Get(c.ID()); !ok {
			return
		}
		if gl.claim(c.ID()) {
			gl.game.ClearSteeringInput()
			log.Printf("client %s took control", c.ID())
		}
		_ = c.Send(gl.Welcome(c))

	case MsgInput, MsgPointer, MsgRelease:
		if gl.Controller() != c.ID() {
			return
		}
		switch msg.Type {
		case MsgInput:
			gl.game.SetSteeringInput(msg.Value)
		case MsgPointer:
			gl.game.SteerFromPointer(msg.X)
		default:
			gl.game.ClearSteeringInput()
		}
	}
}

// Disconnect forgets c and releases control if it was steering.
func (gl *GameLoop) Disconnect(c Client) {
	gl.conns.Remove(c.ID())
	gl.mu.Lock()
	released := gl.controller == c.ID()
	if released {
		gl.controller = ""
	}
	gl.mu.Unlock()
	if released {
		gl.game.ClearSteeringInput()
		log.Printf("client %s released control", c.ID())
	}
}

func (gl *GameLoop) claim(id string) bool {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	if gl.controller != "" {
		return false
	}
	gl.controller = id
	return true
}
