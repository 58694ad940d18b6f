// Package stream broadcasts committed iterations to websocket clients as
// JSON frames.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/logger"
)

const (
	queueSize    = 64
	writeTimeout = 10 * time.Second
)

// Frame is one iteration as sent on the wire. Temperatures are row-major.
type Frame struct {
	Run          string    `json:"run"`
	Iteration    int       `json:"iteration"`
	State        string    `json:"state"`
	Changed      bool      `json:"changed"`
	MaxDelta     float64   `json:"max_delta"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Temperatures []float64 `json:"temperatures"`
}

// Hub fans frames out to every connected client. It implements
// engine.Observer and http.Handler.
type Hub struct {
	run        string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
	dropped    atomic.Int64
}

// NewHub starts a hub whose frames are tagged with run.
func NewHub(run string) *Hub {
	h := &Hub{
		run:        run,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, queueSize),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	h.wg.Add(1)
	go h.loop()
	return h
}

// Observe queues a frame for the committed iteration. When the queue is full
// the frame is dropped so a slow client never stalls the run.
func (h *Hub) Observe(ctx context.Context, stats engine.IterationStats, grid *alloy.Grid) error {
	data, err := json.Marshal(Frame{
		Run:          h.run,
		Iteration:    stats.Iteration,
		State:        stats.State.String(),
		Changed:      stats.Changed,
		MaxDelta:     stats.MaxDelta,
		Width:        grid.Width(),
		Height:       grid.Height(),
		Temperatures: grid.Field().Values(),
	})
	if err != nil {
		return err
	}
	select {
	case <-h.done:
		return nil
	default:
	}
	select {
	case h.broadcast <- data:
	default:
		if n := h.dropped.Add(1); n%100 == 1 {
			logger.DebugKV(ctx, "Stream queue full, dropping frames", "dropped", n)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnKV(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many frames were discarded because the queue was full.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

func (h *Hub) loop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()

			var failed []*websocket.Conn
			for _, conn := range conns {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					failed = append(failed, conn)
					conn.Close()
				}
			}
			if len(failed) > 0 {
				h.mu.Lock()
				for _, conn := range failed {
					delete(h.clients, conn)
				}
				h.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the broadcaster.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	})
	return nil
}
