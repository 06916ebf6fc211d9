package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const statePollInterval = 250 * time.Millisecond

// serveWS streams JSON state frames for one mission's live combat. The
// client receives "state" frames while the session runs, then a single
// "result" frame, after which the connection closes.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	missionID := r.URL.Query().Get("mission")
	if missionID == "" {
		http.Error(w, "mission query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statePollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if res, ok := s.mgr.FinalResult(missionID); ok {
			msg := OutboundMessage{Type: "result", Payload: resultToDTO(missionID, res)}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write result %s: %v", missionID, err)
			}
			return
		}
		st, live := s.mgr.LiveSessionState(missionID)
		if !live {
			if !s.mgr.IsSessionActive(missionID) {
				msg := OutboundMessage{Type: "error", Payload: errorDTO{Error: "no session for mission"}}
				_ = conn.WriteJSON(msg)
				return
			}
			continue
		}
		msg := OutboundMessage{Type: "state", Payload: stateToDTO(missionID, st)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
