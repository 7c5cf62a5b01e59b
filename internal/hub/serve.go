package hub

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve upgrades the request and streams the session's events until the peer
// leaves, the request context ends or the hub stops. It blocks for the
// lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := NewClient(sessionID, conn, h)
	if !h.Register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		return conn.Close()
	}

	go c.ReadPump()
	c.WritePump(r.Context())
	return nil
}
