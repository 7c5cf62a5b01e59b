package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mymatch/dashboard/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Browsers never send payloads; anything bigger than a control frame is noise
	maxMessageSize = 512

	sendBufferSize = 16
)

// Client is one websocket connection of a session
type Client struct {
	ID        string
	SessionID string
	Send      chan models.SessionEvent
	conn      *websocket.Conn
	hub       *Hub
}

func NewClient(sessionID string, conn *websocket.Conn, h *Hub) *Client {
	return &Client{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Send:      make(chan models.SessionEvent, sendBufferSize),
		conn:      conn,
		hub:       h,
	}
}

// TrySend queues an event without blocking; false means the buffer is full
func (c *Client) TrySend(event models.SessionEvent) bool {
	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// ReadPump discards inbound frames and keeps the connection's deadlines fresh.
// It unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debugw("Client closed unexpectedly", "client", c.ID, "error", err)
			}
			return
		}
	}
}

// WritePump forwards queued events to the connection and pings the peer
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case event, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.hub.logger.Debugw("Client write failed", "client", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
