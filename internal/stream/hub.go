// Package stream serves controller snapshots over websockets and accepts
// lifecycle and parameter commands from connected clients.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"snow-ca/internal/render"
	"snow-ca/internal/sims/snowflake"
)

// ErrUnknownCommand is reported to clients for unrecognised command types.
var ErrUnknownCommand = errors.New("unknown command")

// Controller is the part of a snowflake controller the hub drives.
type Controller interface {
	Start() error
	Pause() error
	Resume() error
	Step() error
	Reset() error
	SetParameter(key string, value float64) error
	Snapshot() *snowflake.Snapshot
}

// Frame is the JSON message broadcast for every published generation. Cells
// holds one state byte per cell in storage order and is base64 encoded.
type Frame struct {
	Type   string  `json:"type"`
	Tick   uint64  `json:"tick"`
	Model  string  `json:"model"`
	Status string  `json:"status"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Ice    int     `json:"ice"`
	Mass   float64 `json:"mass"`
	Radius int     `json:"radius"`
	Cells  []uint8 `json:"cells"`
}

// Command is a client request. Key and Value are only read by "set".
type Command struct {
	Type  string  `json:"type"`
	Key   string  `json:"key,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Reply acknowledges or rejects a single command.
type Reply struct {
	Type  string `json:"type"`
	Cmd   string `json:"cmd"`
	Error string `json:"error,omitempty"`
}

// Hub fans snapshots out to websocket clients.
type Hub struct {
	ctrl     Controller
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub returns a hub for ctrl. A nil logger selects slog.Default().
func NewHub(ctrl Controller, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		ctrl: ctrl,
		log:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler routes /ws to the websocket endpoint and /snapshot.svg to an SVG
// outline of the current crystal.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/snapshot.svg", h.serveSVG)
	return mux
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) serveSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, h.ctrl.Snapshot(), 8); err != nil {
		h.log.Error("svg export failed", "err", err)
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMu
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()
	h.log.Info("client connected", "remote", r.RemoteAddr)

	h.send(conn, connMu, newFrame(h.ctrl.Snapshot()))

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read failed", "err", err)
			}
			return
		}
		reply := Reply{Type: "ack", Cmd: cmd.Type}
		if err := h.apply(cmd); err != nil {
			reply = Reply{Type: "error", Cmd: cmd.Type, Error: err.Error()}
		}
		h.send(conn, connMu, reply)
		if reply.Type == "ack" {
			h.Broadcast()
		}
	}
}

func (h *Hub) apply(cmd Command) error {
	switch cmd.Type {
	case "start":
		return h.ctrl.Start()
	case "pause":
		return h.ctrl.Pause()
	case "resume":
		return h.ctrl.Resume()
	case "step":
		return h.ctrl.Step()
	case "reset":
		return h.ctrl.Reset()
	case "set":
		return h.ctrl.SetParameter(cmd.Key, cmd.Value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

func (h *Hub) send(conn *websocket.Conn, connMu *sync.Mutex, v any) {
	connMu.Lock()
	err := conn.WriteJSON(v)
	connMu.Unlock()
	if err != nil {
		h.log.Warn("websocket write failed", "err", err)
	}
}

// Broadcast sends the current snapshot to every client. Clients whose write
// fails are dropped.
func (h *Hub) Broadcast() {
	frame := newFrame(h.ctrl.Snapshot())
	var failed []*websocket.Conn
	h.mu.RLock()
	for conn, connMu := range h.clients {
		connMu.Lock()
		err := conn.WriteJSON(frame)
		connMu.Unlock()
		if err != nil {
			h.log.Warn("dropping client", "err", err)
			conn.Close()
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	}
}

// Run broadcasts every interval when a new generation has been published,
// until ctx is done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var last *snowflake.Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		s := h.ctrl.Snapshot()
		if s == last {
			continue
		}
		last = s
		h.Broadcast()
	}
}

func newFrame(s *snowflake.Snapshot) Frame {
	size := s.Size()
	return Frame{
		Type:   "frame",
		Tick:   s.Tick,
		Model:  string(s.Model),
		Status: s.Status.String(),
		Width:  size.W,
		Height: size.H,
		Ice:    s.IceCount(),
		Mass:   s.TotalMass(),
		Radius: s.CrystalRadius(),
		Cells:  s.Cells(),
	}
}
