// Package stream accepts best-effort interim speech fragments over a
// websocket. Fragments land in the session's pending utterance buffer and
// are only advisory: the final turn text from the gather webhook stays
// authoritative.
package stream

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Provider media gateways connect from rotating hosts.
		return true
	},
}

// interimFrame is one speech fragment pushed by the provider.
type interimFrame struct {
	CallSid string `json:"callSid"`
	Text    string `json:"text"`
	Final   bool   `json:"final,omitempty"`
}

// Handler upgrades interim transcript connections.
type Handler struct {
	sessions *session.Store
	logger   zerolog.Logger
}

// NewHandler creates the interim stream handler.
func NewHandler(sessions *session.Store, logger zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// ServeHTTP upgrades the connection and consumes frames until the peer
// disconnects. Frames for unknown sessions are dropped silently; the
// stream must never fabricate state.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade interim stream")
		return
	}
	defer conn.Close()

	for {
		var frame interimFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug().Err(err).Msg("interim stream closed unexpectedly")
			}
			return
		}
		if frame.CallSid == "" || frame.Text == "" {
			continue
		}

		sess, ok := h.sessions.Get(frame.CallSid)
		if !ok {
			continue
		}
		sess.BufferUtterance(frame.Text)
	}
}
