// Package server is the transport edge of the relay: WebSocket upgrades,
// per-connection pumps, static asset serving, and operational endpoints.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"chat-relay/internal"
	"chat-relay/runtime"
)

// Options carries the transport knobs taken from configuration.
type Options struct {
	ConnectionBufferSize int
	MaxMessageSize       int64
	StaticRoot           string
}

type Server struct {
	log      *slog.Logger
	router   *runtime.Router
	opts     Options
	upgrader websocket.Upgrader
}

func New(log *slog.Logger, router *runtime.Router, opts Options) *Server {
	return &Server{
		log:    log,
		router: router,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from arbitrary origins; the relay
			// does no authentication.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and hands the connection to the router.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(conn, s.router, s.log, s.opts.ConnectionBufferSize, s.opts.MaxMessageSize)
	client.id = s.router.HandleOpen(client).ID

	go client.writePump()
	go client.readPump()
}

// Routes assembles the full HTTP surface. statsProvider feeds application
// counters into /debug/stats and may be nil.
func (s *Server) Routes(statsProvider func() map[string]any) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/debug/stats", internal.StatsHandler(statsProvider))
	if s.opts.StaticRoot != "" {
		mux.Handle("/", newStaticHandler(s.log, s.opts.StaticRoot))
	}
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "ok")
}
