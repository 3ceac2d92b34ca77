package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"squirm-server/game"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	times    map[string]time.Time
}

func newIPRateLimiter(ctx context.Context, cooldown time.Duration) *ipRateLimiter {
	rl := &ipRateLimiter{cooldown: cooldown, times: make(map[string]time.Time)}
	if cooldown <= 0 {
		return rl
	}
	// Cleanup stale entries every minute
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.prune(time.Now())
			}
		}
	}()
	return rl
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	if rl.cooldown <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok && time.Since(last) < rl.cooldown {
		return false
	}
	rl.times[ip] = time.Now()
	return true
}

func (rl *ipRateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := now.Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, codec Codec, msg string) {
	if data, err := codec.Marshal(ErrorMsg{Type: MsgError, Message: msg}); err == nil {
		_ = ws.WriteMessage(codec.MessageType(), data)
	}
	ws.Close()
}

// clientIP extracts the client IP, honoring X-Forwarded-For for reverse proxies
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// newHandler wires the websocket endpoint and the static client files.
func newHandler(cfg *ServerConfig, loop *GameLoop, conns *ConnManager, codec Codec, limiter *ipRateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(WebSocketPath, func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}

		// Check limits after upgrade so client can receive error messages
		if !limiter.allow(ip) {
			sendErrorAndClose(ws, codec, fmt.Sprintf("Too many connections. Please wait %s.", cfg.IPCooldown))
			return
		}
		conn := NewConn(ws, codec)
		if !conns.AddIfRoom(conn, cfg.MaxViewers) {
			sendErrorAndClose(ws, codec, "Server full. Please try again later.")
			return
		}
		ws.EnableWriteCompression(true)
		log.Printf("viewer connected: %s (%s)", conn.ID(), ip)

		// A state frame may reach the client ahead of the welcome
		if err := conn.Send(loop.Welcome(conn)); err != nil {
			log.Printf("welcome to %s failed: %v", conn.ID(), err)
			conns.Remove(conn.ID())
			conn.Close()
			return
		}

		done := make(chan struct{})
		go conn.PingLoop(done)

		// Blocking read loop, runs until client disconnects
		conn.ReadLoop(loop.HandleMessage, func(c Client) {
			close(done)
			loop.Disconnect(c)
			log.Printf("viewer disconnected: %s", c.ID())
		})
	})

	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	return mux
}

func main() {
	cfg := NewServerConfig()
	if err := cfg.LoadEnv(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run serves until ctx is cancelled, then shuts the listener down.
func run(ctx context.Context, cfg *ServerConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	codec, err := CodecByName(cfg.Codec)
	if err != nil {
		return err
	}
	g, err := game.New(cfg.GameConfig(), cfg.Seed)
	if err != nil {
		return err
	}
	var pilot *game.Autopilot
	if cfg.Autopilot {
		pilot = game.NewAutopilot(g.Config(), cfg.Seed)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conns := NewConnManager()
	loop := NewGameLoop(g, conns, pilot, cfg.TickRate)
	limiter := newIPRateLimiter(ctx, cfg.IPCooldown)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, loop, conns, codec, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s (arena %.0fx%.0f, seed %d, codec %s)",
			cfg.Addr, cfg.ArenaWidth, cfg.ArenaHeight, cfg.Seed, codec.Name())
		serveErr <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		for _, c := range conns.Snapshot() {
			c.Close()
		}
	}
	cancel()
	<-loopDone
	return runErr
}
