package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is a viewer the game loop streams frames to.
type Client interface {
	ID() string
	Send(msg any) error
	Close()
}

// Conn manages a single WebSocket session
type Conn struct {
	id     string
	ws     *websocket.Conn
	codec  Codec
	mu     sync.Mutex // protects ws writes and closed
	closed bool
}

// NewConn creates a new connection wrapper
func NewConn(ws *websocket.Conn, codec Codec) *Conn {
	return &Conn{
		id:    uuid.New().String(),
		ws:    ws,
		codec: codec,
	}
}

// ID returns the connection's unique id.
func (c *Conn) ID() string {
	return c.id
}

// Send serializes msg with the connection codec and writes it to the WebSocket
func (c *Conn) Send(msg any) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %T: %w", msg, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := c.ws.WriteMessage(c.codec.MessageType(), data); err != nil {
		return fmt.Errorf("write to %s: %w", c.id, err)
	}
	return nil
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]Client
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]Client)}
}

// Add registers a connection
func (m *ConnManager) Add(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID()] = c
}

// AddIfRoom registers c unless max connections are already registered.
func (m *ConnManager) AddIfRoom(c Client, max int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.conns) >= max {
		return false
	}
	m.conns[c.ID()] = c
	return true
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Get returns a connection by ID
func (m *ConnManager) Get(id string) (Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]Client, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// ReadLoop handles incoming messages for a connection until it disconnects.
// onMessage is called for every well-formed message, onDisconnect once when
// the connection closes.
func (c *Conn) ReadLoop(
	onMessage func(c Client, msg ClientMessage),
	onDisconnect func(c Client),
) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	c.ws.SetReadLimit(MaxMessageBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(ReadTimeout))
	})

	for {
		mt, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.id, err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(ReadTimeout))

		msg, err := decodeClientMessage(mt, raw)
		if err != nil {
			log.Printf("bad message from %s: %v", c.id, err)
			continue
		}
		onMessage(c, msg)
	}
}

// PingLoop keeps the read deadline alive until done is closed.
func (c *Conn) PingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteTimeout))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
