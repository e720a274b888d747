package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

// Path is where the Hub accepts websocket connections.
const Path = "/bridge"

const maxMessageSize = 8 << 20

// Hub is the listening end of the bridge. Every valid message read from any
// connection is published to its local subscribers.
//
// Browsers always send an Origin header; it must be in the allow-list.
// Requests without one come from local processes and are accepted.
type Hub struct {
	bus      *LocalBus
	origins  map[string]struct{}
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(allowedOrigins []string, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	h := &Hub{
		bus:     NewLocalBus(16),
		origins: make(map[string]struct{}, len(allowedOrigins)),
		logger:  logger.With("module", "bridge"),
		conns:   map[*websocket.Conn]struct{}{},
	}
	for _, o := range allowedOrigins {
		h.origins[o] = struct{}{}
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := h.origins[origin]
	return ok
}

// Subscribe returns messages received from connected publishers.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	return h.bus.Subscribe()
}

func (h *Hub) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(Path, h.serveWS)
	return r
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "failed to upgrade the websocket", "origin", r.Header.Get("Origin"), "error", err)
		return
	}
	ws.SetReadLimit(maxMessageSize)

	h.track(ws, true)
	defer h.track(ws, false)
	defer ws.Close()

	h.logger.Debug(r.Context(), "bridge peer connected", "remote", r.RemoteAddr)

	for {
		var m Message
		if err := ws.ReadJSON(&m); err != nil {
			h.logger.Debug(r.Context(), "bridge peer disconnected", "error", err)
			return
		}
		if err := m.Validate(); err != nil {
			h.logger.Warn(r.Context(), "dropping bridge message", "error", err)
			continue
		}
		h.bus.Publish(m)
	}
}

func (h *Hub) track(ws *websocket.Conn, add bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if add {
		h.conns[ws] = struct{}{}
	} else {
		delete(h.conns, ws)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.conns {
		_ = ws.Close()
	}
}

// Run listens on addr until ctx is cancelled. ready, if not nil, receives
// the bound address once listening.
func (h *Hub) Run(ctx context.Context, addr string, ready chan<- string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info(ctx, "Starting bridge listener", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()
	if ready != nil {
		ready <- lis.Addr().String()
	}

	select {
	case <-ctx.Done():
		h.logger.Info(ctx, "Shutting down bridge listener")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		h.closeAll()
		return err
	case err := <-errCh:
		h.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
