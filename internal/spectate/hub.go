// Package spectate streams game snapshots to read-only viewers over
// websocket. Spectators never send input; anything they write is discarded.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/lane-runner/internal/runner"
)

const (
	sendBuffer   = 16
	writeTimeout = 2 * time.Second
)

// Frame is the JSON message sent to spectators.
type Frame struct {
	Type     string          `json:"type"`
	Snapshot runner.Snapshot `json:"snapshot"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans snapshots out to connected spectators. Slow spectators whose
// buffer fills up are disconnected rather than stalling the game.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	last      []byte
	lastTick  uint64
	lastState runner.State
	published bool

	every    uint64
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHub creates a hub that forwards at most one frame every `every` ticks.
// State changes are always forwarded.
func NewHub(every int, logger *log.Logger) *Hub {
	if every < 1 {
		every = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		every:   uint64(every),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Len returns the number of connected spectators.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish forwards snap if it is due. Returns whether a frame was sent.
func (h *Hub) Publish(snap runner.Snapshot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	due := !h.published || snap.State != h.lastState ||
		snap.Tick < h.lastTick || snap.Tick-h.lastTick >= h.every
	if !due {
		return false
	}

	data, err := json.Marshal(Frame{Type: "frame", Snapshot: snap})
	if err != nil {
		h.logger.Warn("spectate: cannot encode frame", "err", err)
		return false
	}

	h.last = data
	h.lastTick = snap.Tick
	h.lastState = snap.State
	h.published = true

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("spectate: dropping slow client", "remote", c.conn.RemoteAddr())
			delete(h.clients, c)
			c.close()
		}
	}
	return true
}

// ServeHTTP upgrades the request and streams frames until the spectator
// leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("spectate: upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()
	h.logger.Info("spectator joined", "remote", conn.RemoteAddr())

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards input and unregisters the client once the connection
// drops.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.logger.Info("spectator left", "remote", c.conn.RemoteAddr())
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// Observer returns an observer that logs state changes seen by spectators.
func (h *Hub) Observer() runner.Observer {
	return runner.ObserverFuncs{
		StateChange: func(s runner.State) {
			h.logger.Debug("spectate: state", "state", s, "spectators", h.Len())
		},
	}
}

// Server serves the hub on /ws.
type Server struct {
	hub    *Hub
	srv    *http.Server
	ln     net.Listener
	logger *log.Logger
}

// Listen binds addr and prepares the spectator endpoint.
func Listen(addr string, hub *Hub, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("spectate: cannot listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{
		hub:    hub,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("spectator stream listening", "addr", "ws://"+s.Addr()+"/ws")
		errCh <- s.srv.Serve(s.ln)
	}()

	select {
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectate: %w", err)
	}
}
