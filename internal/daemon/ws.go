package daemon

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"vibeline/internal/api"
	"vibeline/internal/logging"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxReadBytes = 512
	wsSendBuffer   = 64
)

// handleWS upgrades to a websocket and pushes one JSON event per message until
// the client goes away or the daemon stops. Clients only send pongs and
// close frames; anything else is read and discarded.
func (s *apiServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade rejected", logging.Error(err))
		return
	}
	defer conn.Close()

	sub := s.daemon.hub.Subscribe(wsSendBuffer)
	defer sub.Close()

	logger := logging.WithContext(r.Context(), s.logger)
	logger.Debug("websocket client connected", logging.String("remote", r.RemoteAddr))

	ping := s.ping
	if ping <= 0 {
		ping = 30 * time.Second
	}
	pongWait := ping + ping/2

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(wsMaxReadBytes)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(ping)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-sub.C():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(api.FromEvent(evt)); err != nil {
				logger.Debug("websocket write failed", logging.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-closed:
			logger.Debug("websocket client disconnected", logging.Uint64("dropped", sub.Dropped()))
			return
		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
