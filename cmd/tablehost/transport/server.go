// Package transport is a thin demo front end over the session core: one
// websocket per connected client, streaming internal/eventbus events as
// JSON and accepting propose_action/advance_hand requests. Grounded in
// internal/server/server.go's handleWebSocket (upgrade, read
// loop, ping/pong deadlines) generalized from one binary Connect/Action
// protocol to many JSON-framed session ids.
//
// This is deliberately minimal: transport and wire-protocol design are
// explicitly out of scope for the core itself, so nothing here is load
// bearing for the session orchestration logic in internal/session.
package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/riverrun/holdem/internal/eventbus"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/registry"
	"github.com/riverrun/holdem/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server hosts the websocket demo front end over a Registry.
type Server struct {
	registry   *registry.Registry
	logger     zerolog.Logger
	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
}

// New constructs a Server bound to reg. It does not start listening.
func New(reg *registry.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		registry: reg,
		logger:   logger.With().Str("component", "transport").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Serve blocks, listening on addr until the server is shut down.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{Handler: s.mux}
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("transport listening")
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// clientRequest is the inbound frame shape: propose_action or advance_hand.
type clientRequest struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID int    `json:"player_id"`
	Action   struct {
		Kind   string `json:"kind"`
		Amount int    `json:"amount"`
	} `json:"action"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	gameID := r.URL.Query().Get("game_id")
	sess, err := s.registry.Get(gameID)
	if err != nil {
		s.writeError(conn, err)
		return
	}

	sub := sess.Subscribe()
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go s.writePump(conn, sub, done)
	s.readPump(conn, sess, gameID)
	close(done)
}

func (s *Server) writePump(conn *websocket.Conn, sub *eventbus.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug().Err(err).Msg("write event failed, closing")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) readPump(conn *websocket.Conn, sess *session.Session, gameID string) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req clientRequest
		if err := conn.ReadJSON(&req); err != nil {
			s.logger.Debug().Err(err).Str("game_id", gameID).Msg("client disconnected")
			return
		}

		switch req.Type {
		case "propose_action":
			action := decodeAction(req.Action.Kind, req.Action.Amount)
			if _, err := sess.ProposeAction(req.PlayerID, action); err != nil {
				s.writeError(conn, err)
			}
		case "advance_hand":
			if _, err := sess.Advance(); err != nil {
				s.writeError(conn, err)
			}
		default:
			s.logger.Warn().Str("type", req.Type).Msg("unknown request type")
		}
	}
}

func decodeAction(kind string, amount int) poker.Action {
	switch poker.ActionKind(kind) {
	case poker.Fold:
		return poker.NewFold()
	case poker.Check:
		return poker.NewCheck()
	case poker.Raise:
		return poker.NewRaise(amount)
	default:
		return poker.NewCall()
	}
}

func (s *Server) writeError(conn *websocket.Conn, err error) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(map[string]string{"type": "error", "detail": err.Error()})
}
