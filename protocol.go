package main

import (
	"math"

	"squirm-server/game"
)

// Protocol uses single-character keys to minimize wire size, in both the
// JSON and the msgpack codec. All x,y coordinates are rounded to 1 decimal place.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = join     {"t":"j"}              take control of the worm if nobody has it
//     "i" = input    {"t":"i","v":-0.4}     steering scalar in [-1,1]
//     "x" = pointer  {"t":"x","x":120}      pointer x offset in scene units
//     "u" = release  {"t":"u"}              finger lifted, back to neutral
//   Server → Client:
//     "w" = welcome  {"t":"w","i":"id","c":0,"hw":375,"hh":667,"d":20,"r":60}
//     "s" = state    {"t":"s","n":frame,"s":[[x,y],...],"f":[x,y],"p":score,"h":heading}
//     "o" = gameover {"t":"o","k":"boundary","p":score,"l":length}
//     "e" = error    {"t":"e","m":"message"}

// Message type identifiers
const (
	MsgJoin     = "j"
	MsgInput    = "i"
	MsgPointer  = "x"
	MsgRelease  = "u"
	MsgWelcome  = "w"
	MsgState    = "s"
	MsgGameOver = "o"
	MsgError    = "e"
)

// ClientMessage is the base incoming message from a client.
type ClientMessage struct {
	Type  string  `json:"t" msgpack:"t"`
	Value float64 `json:"v,omitempty" msgpack:"v,omitempty"`
	X     float64 `json:"x,omitempty" msgpack:"x,omitempty"`
}

// WelcomeMsg is sent on connect, and again when the client becomes the controller.
// c = 1 when this client steers the worm
type WelcomeMsg struct {
	Type         string  `json:"t" msgpack:"t"`
	ID           string  `json:"i" msgpack:"i"`
	Controller   int     `json:"c" msgpack:"c"`
	HalfWidth    float64 `json:"hw" msgpack:"hw"`
	HalfHeight   float64 `json:"hh" msgpack:"hh"`
	NodeDiameter float64 `json:"d" msgpack:"d"`
	TickRate     int     `json:"r" msgpack:"r"`
}

// StateMsg is the per-frame snapshot.
// Nodes are flat [x,y] pairs, head first; f is omitted while no food is active.
type StateMsg struct {
	Type    string       `json:"t" msgpack:"t"`
	Frame   uint64       `json:"n" msgpack:"n"`
	Nodes   [][2]float64 `json:"s" msgpack:"s"`
	Food    *[2]float64  `json:"f,omitempty" msgpack:"f,omitempty"`
	Score   int          `json:"p" msgpack:"p"`
	Heading int          `json:"h" msgpack:"h"`
}

// GameOverMsg reports a soft reset. k = cause ("boundary" or "self"),
// p and l = score and length before the reset
type GameOverMsg struct {
	Type   string `json:"t" msgpack:"t"`
	Cause  string `json:"k" msgpack:"k"`
	Score  int    `json:"p" msgpack:"p"`
	Length int    `json:"l" msgpack:"l"`
}

// ErrorMsg is sent before the server closes a connection it refused.
type ErrorMsg struct {
	Type    string `json:"t" msgpack:"t"`
	Message string `json:"m" msgpack:"m"`
}

// NewStateMsg converts a frame snapshot to its wire form.
func NewStateMsg(fr game.Frame) StateMsg {
	pairs := make([][2]float64, len(fr.Nodes))
	for i, p := range fr.Nodes {
		pairs[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
	}
	msg := StateMsg{
		Type:    MsgState,
		Frame:   fr.Number,
		Nodes:   pairs,
		Score:   fr.Score,
		Heading: fr.Heading,
	}
	if fr.Food != nil {
		msg.Food = &[2]float64{roundTo1(fr.Food.X), roundTo1(fr.Food.Y)}
	}
	return msg
}

// NewGameOverMsg describes the reset in fr.
func NewGameOverMsg(fr game.Frame) GameOverMsg {
	return GameOverMsg{
		Type:   MsgGameOver,
		Cause:  fr.Reset.String(),
		Score:  fr.FinalScore,
		Length: fr.FinalLength,
	}
}

// roundTo1 rounds a float64 to 1 decimal place to save protocol bytes.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
