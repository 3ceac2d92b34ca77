package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"squirm-server/game"
)

func newTestServer(t *testing.T, maxViewers int) (*httptest.Server, *GameLoop) {
	t.Helper()
	cfg := NewServerConfig()
	cfg.StaticDir = t.TempDir()
	cfg.MaxViewers = maxViewers
	cfg.IPCooldown = 0
	if err := os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("<canvas></canvas>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	g, err := game.New(cfg.GameConfig(), 1)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	conns := NewConnManager()
	loop := NewGameLoop(g, conns, nil, cfg.TickRate)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(newHandler(cfg, loop, conns, jsonCodec{}, newIPRateLimiter(ctx, cfg.IPCooldown)))
	t.Cleanup(srv.Close)
	return srv, loop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + WebSocketPath
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readType reads messages until one of type want arrives.
func readType(t *testing.T, ws *websocket.Conn, want string) []byte {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		var head struct {
			T string `json:"t"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if head.T == want {
			return data
		}
	}
}

func join(t *testing.T, ws *websocket.Conn) WelcomeMsg {
	t.Helper()
	if err := ws.WriteJSON(ClientMessage{Type: MsgJoin}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	var w WelcomeMsg
	if err := json.Unmarshal(readType(t, ws, MsgWelcome), &w); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	return w
}

func TestWebSocketJoinAndState(t *testing.T) {
	srv, loop := newTestServer(t, 4)
	ws := dial(t, srv)

	var hello WelcomeMsg
	if err := json.Unmarshal(readType(t, ws, MsgWelcome), &hello); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if hello.ID == "" || hello.Controller != 0 || hello.HalfHeight != DefaultArenaHeight/2 {
		t.Fatalf("unexpected welcome: %+v", hello)
	}

	w := join(t, ws)
	if w.Controller != 1 || w.ID != hello.ID {
		t.Fatalf("join did not grant control: %+v", w)
	}
	if loop.Controller() != hello.ID {
		t.Fatalf("loop controller %q, want %q", loop.Controller(), hello.ID)
	}

	loop.tick(0)
	var st StateMsg
	if err := json.Unmarshal(readType(t, ws, MsgState), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Frame != 1 || len(st.Nodes) == 0 {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestWebSocketRefusesWhenFull(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	first := dial(t, srv)
	readType(t, first, MsgWelcome)
	join(t, first)

	second := dial(t, srv)
	var e ErrorMsg
	if err := json.Unmarshal(readType(t, second, MsgError), &e); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.Contains(e.Message, "full") {
		t.Fatalf("unexpected refusal: %q", e.Message)
	}
}

func TestServesStaticClient(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "canvas") {
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, body)
	}
}

func TestRunReturnsWhenListenFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := NewServerConfig()
	cfg.Addr = ln.Addr().String()
	cfg.StaticDir = t.TempDir()

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected listen error on a busy port")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return after listen failure")
	}
}
