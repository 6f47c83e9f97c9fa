// Package api serves read-only simulation state over HTTP and streams
// portrayal frames to WebSocket viewers. The loop publishes a frame after
// every tick; handlers only ever touch published frames, never the live
// simulation.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/gridlab/evacsim/internal/engine"
)

const maxStreamConns = 8

// Server exposes the observation API for one live run.
type Server struct {
	Port int

	mu     sync.RWMutex
	latest engine.Frame
	seen   bool
	subs   map[chan engine.Frame]struct{}

	streamConns int32

	done      chan struct{}
	closeOnce sync.Once

	upgrader websocket.Upgrader
}

// NewServer creates a server; frames arrive via Publish.
func NewServer(port int) *Server {
	return &Server{
		Port: port,
		subs: make(map[chan engine.Frame]struct{}),
		done: make(chan struct{}),
		upgrader: websocket.Upgrader{
			// Local observation tool; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish stores the latest frame and fans it out to stream subscribers.
// Slow subscribers drop frames rather than stalling the loop.
func (s *Server) Publish(f engine.Frame) {
	s.mu.Lock()
	s.latest = f
	s.seen = true
	for ch := range s.subs {
		select {
		case ch <- f:
		default:
		}
	}
	s.mu.Unlock()
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/frame", s.handleFrame)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	f := s.latest
	ok := s.seen
	s.mu.RUnlock()

	status := map[string]any{
		"tick":      f.Tick,
		"emergency": f.Emergency,
		"active":    f.Active,
		"grid_size": f.GridSize,
		"started":   ok,
	}
	writeJSON(w, status)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	f := s.latest
	ok := s.seen
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, f)
}

// handleStream upgrades to WebSocket and pushes every published frame
// until the client goes away. Connection count is capped.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if atomic.AddInt32(&s.streamConns, 1) > maxStreamConns {
		atomic.AddInt32(&s.streamConns, -1)
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&s.streamConns, -1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch := make(chan engine.Frame, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	// Drain client messages so pings and closes are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case f := <-ch:
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		case <-s.done:
			// No more frames will ever arrive; hang up instead of leaving
			// idle clients waiting forever.
			return
		}
	}
}

// Close hangs up every stream client. Safe to call more than once; the
// status and frame endpoints keep serving the last published frame.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}
