package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// liveMessage is pushed to websocket clients: a dashboard, or an error that
// leaves the connection open for the next tick.
type liveMessage struct {
	Dashboard *pipeline.Dashboard `json:"dashboard,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// handleLive upgrades to a websocket and pushes a dashboard on connect, on
// every refresh tick, and whenever the client sends a new selection as a
// JSON-encoded pipeline.Params.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	params, err := pipeline.ParseParams(r.URL.Query())
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.metrics.WebsocketClients.Inc()
	defer s.metrics.WebsocketClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	selections := make(chan pipeline.Params)
	go s.readSelections(ctx, cancel, conn, selections)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if !s.push(ctx, conn, params) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-selections:
			params = p
			ticker.Reset(s.refreshInterval)
		case <-ticker.C:
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
			continue
		}
		if !s.push(ctx, conn, params) {
			return
		}
	}
}

// readSelections decodes client messages until the connection fails. Invalid
// selections are ignored.
func (s *Server) readSelections(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out chan<- pipeline.Params) {
	defer cancel()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var p pipeline.Params
		if err := json.Unmarshal(data, &p); err != nil {
			s.logger.Debug("websocket message ignored", "error", err)
			continue
		}
		if err := p.Validate(); err != nil {
			s.logger.Debug("websocket selection rejected", "error", err)
			continue
		}

		select {
		case out <- p:
		case <-ctx.Done():
			return
		}
	}
}

// push runs one refresh and writes the result. It returns false when the
// connection can no longer be written to.
func (s *Server) push(ctx context.Context, conn *websocket.Conn, params pipeline.Params) bool {
	var msg liveMessage
	d, err := s.refresher.Refresh(ctx, params)
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case err != nil:
		s.logger.Warn("live refresh failed", "error", err, "params", params.Query().Encode())
		msg.Error = err.Error()
	default:
		msg.Dashboard = &d
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		return false
	}
	return true
}
