package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ledgerwallet_go/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// eventsUpgrader is used to upgrade HTTP connections to WebSocket connections.
var eventsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Read-only feed of public data
	},
}

// EventsHandler streams hub events as JSON text frames until the client leaves.
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.LogError("[events_ws] Failed to upgrade connection for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	sub := s.Hub.Subscribe()
	defer s.Hub.Unsubscribe(sub)
	utils.LogInfo("[events_ws] Connection established with %s", r.RemoteAddr)

	// Reader goroutine only tracks liveness; clients send nothing meaningful.
	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					utils.LogError("[events_ws] Error reading from %s: %v", r.RemoteAddr, err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				utils.LogError("[events_ws] Error writing to %s: %v", r.RemoteAddr, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			utils.LogInfo("[events_ws] Client %s disconnected.", r.RemoteAddr)
			return
		}
	}
}
