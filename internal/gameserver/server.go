package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tilefall/tilefall/internal/config"
)

// Server accepts websocket connections and feeds them into the lobby.
type Server struct {
	cfg      config.Server
	lobby    *Lobby
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
}

// NewServer builds a server around the given lobby.
func NewServer(cfg config.Server, lobby *Lobby) *Server {
	return &Server{
		cfg:   cfg,
		lobby: lobby,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Addr returns the address the server is listening on, or nil before
// Serve has bound a listener.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections on ln until ctx is done. The listener is
// closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	router := mux.NewRouter()
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	if s.cfg.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	srv := &http.Server{Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
	}()

	slog.Info("game server started", "address", ln.Addr())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// handleWS upgrades the connection, registers the player with the lobby
// and runs the client pumps until the connection drops.
func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := NewClient(conn, s.cfg.ActionQueueSize, s.cfg.UpdateQueueSize, s.cfg.WriteTimeout)
	slog.Info("new player connection", "client", client.ID(), "remote", r.RemoteAddr)

	if err := s.lobby.Enqueue(client); err != nil {
		slog.Warn("turning player away", "client", client.ID(), "error", err)
		// The pumps never start for rejected clients, so close the raw
		// connection here.
		conn.Close()
		return
	}
	client.Run(ctx)
}
