package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/easeaico/mindcare/internal/chat"
)

const (
	wsReadLimit    = 64 << 10
	wsWriteTimeout = 10 * time.Second
	wsIdleTimeout  = 5 * time.Minute
)

// errFrameLimited marks a frame dropped by the per-client limiter.
var errFrameLimited = errors.New("websocket frame rate limited")

type wsMessage struct {
	Message string `json:"message"`
}

func (s *Server) upgrader() websocket.Upgrader {
	origin := s.opts.CORSOrigin
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if origin == "*" {
				return true
			}
			return strings.EqualFold(r.Header.Get("Origin"), origin)
		},
	}
}

// handleWebsocket answers each {"message": ...} frame with the /api/chat payload.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if strings.TrimSpace(sessionID) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	ctx := r.Context()
	key := s.limiterKey(r)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "session_id", sessionID, "error", err.Error())
			}
			return
		}

		var payload any
		var sendErr error
		var reply *chat.Reply
		if s.limiter.Allow(key) {
			reply, sendErr = s.chat.Send(ctx, sessionID, msg.Message)
		} else {
			sendErr = errFrameLimited
		}
		switch {
		case errors.Is(sendErr, errFrameLimited):
			payload = map[string]any{"success": false, "error": errRateLimited}
		case sendErr == nil:
			payload = newChatResponse(reply)
		case errors.Is(sendErr, chat.ErrInvalidSession):
			payload = map[string]any{"success": false, "error": "Invalid session"}
		case errors.Is(sendErr, chat.ErrMissingFields):
			payload = map[string]any{"success": false, "error": chat.ErrMissingFields.Error()}
		default:
			slog.Error("failed to process websocket message", "session_id", sessionID, "error", sendErr.Error())
			payload = map[string]any{"success": false, "error": "An error occurred processing your message"}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(payload); err != nil {
			slog.Debug("websocket write failed", "session_id", sessionID, "error", err.Error())
			return
		}
		if errors.Is(sendErr, chat.ErrInvalidSession) {
			return
		}
	}
}
