package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type eventMessage struct {
	Block   int             `json:"block"`
	Hash    string          `json:"hash,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// events streams every event of every committed block to a websocket
// client. Messages from the client are ignored; reading only detects when it
// goes away.
func (s *Server) events(c *gin.Context) {
	blocks, cancel := s.chain.Subscribe()
	defer cancel()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("websocket read error", "err", err)
				}
				return
			}
		}
	}()

	for b := range blocks {
		for _, ev := range b.Events {
			msg := eventMessage{Block: b.Index, Hash: b.Hash, Type: ev.Type, Payload: ev.Payload}
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write error", "err", err)
				return
			}
		}
	}
}
