// Package web is the browser adapter: each websocket connection plays its own
// game, sending JSON commands and receiving JSON snapshots.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/loop/server"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// Handler upgrades requests to websockets and runs one game per connection.
type Handler struct {
	cfg      game.Config
	registry *server.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a handler whose games use cfg. A nil registry skips
// shutdown tracking.
func NewHandler(cfg game.Config, registry *server.Registry, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{
			// The page is served from the same host; browsers on other
			// origins may still play.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	world, err := game.NewWorld(h.cfg, nil)
	if err != nil {
		h.logger.Error("create world", "err", err)
		http.Error(w, "game unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	logger := h.logger.With("remote", r.RemoteAddr)
	srv := server.NewServer(world, logger)
	if h.registry != nil {
		id := h.registry.Register(srv)
		defer h.registry.Unregister(id)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go srv.Run(ctx)

	logger.Info("web session started")
	rejected := make(chan error, 8)
	go h.readCommands(conn, srv, rejected, cancel, logger)

	if err := h.writeLoop(ctx, conn, srv, rejected); err != nil {
		logger.Debug("write loop", "err", err)
	}
	logger.Info("web session ended", "score", srv.Snapshot().Score)
}

// readCommands forwards browser commands to the game until the connection
// fails, then cancels the session.
func (h *Handler) readCommands(conn *websocket.Conn, srv *server.Server, rejected chan<- error, cancel context.CancelFunc, logger *log.Logger) {
	defer cancel()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read", "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		cmd, err := DecodeCommand(msg)
		if err != nil {
			logger.Debug("rejected command", "err", err)
			select {
			case rejected <- err:
			default:
			}
			continue
		}
		if !srv.SendCommand(cmd) {
			logger.Debug("command dropped, inbox full", "command", cmd.Kind)
		}
	}
}

// writeLoop is the connection's only writer. It streams each new snapshot at
// the tick rate, plus events, errors and keepalive pings.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, srv *server.Server, rejected <-chan error) error {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	var last *game.Snapshot
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return nil

		case <-ticker.C:
			snap := srv.Snapshot()
			if snap == last {
				continue
			}
			last = snap
			if err := send(conn, TypeSnapshot, snap); err != nil {
				return err
			}

		case ev := <-srv.Events():
			payload := EventPayload{Event: ev.Type.String(), Tick: ev.Tick, Score: ev.Score, Level: ev.Level}
			if err := send(conn, TypeEvent, payload); err != nil {
				return err
			}
			if ev.Type == server.EventShutdown {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return nil
			}

		case err := <-rejected:
			if err := send(conn, TypeError, ErrorPayload{Error: err.Error()}); err != nil {
				return err
			}

		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func send(conn *websocket.Conn, t string, payload any) error {
	b, err := Encode(t, payload)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
