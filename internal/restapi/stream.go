package restapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// streamInterval is how often the status stream pushes a fresh snapshot.
const streamInterval = 500 * time.Millisecond

// stream upgrades to a WebSocket and pushes a JSON array of socketDTO
// every streamInterval until the client disconnects, for a live
// dashboard without polling.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for range ticker.C {
		sockets := s.ctl.Sockets()
		dtos := make([]socketDTO, 0, len(sockets))
		for _, ch := range sockets {
			dtos = append(dtos, toSocketDTO(ch))
		}

		payload, err := json.Marshal(dtos)
		if err != nil {
			s.log.Error().Err(err).Msg("marshal stream payload")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
