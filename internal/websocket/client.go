package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, you should check the origin
		return true
	},
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound envelopes
	send chan *ServerEnvelope

	// Room code this client belongs to
	RoomCode string

	// Player ID from the verified token
	PlayerID string

	// DisplayName for logs
	DisplayName string

	// RateLimitKey is set at connection time (e.g. client IP) for rate limiting actions.
	RateLimitKey string
}

// readPump pumps messages from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read error",
					zap.String("room", c.RoomCode), zap.Error(err))
			}
			break
		}

		var msg ClientInMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.log.Debug("unmarshal client message failed",
				zap.String("room", c.RoomCode), zap.Error(err))
			c.SendError("invalid message format")
			continue
		}
		if handler := c.hub.getHandler(); handler != nil {
			handler.HandleMessage(c, &msg)
		}
	}
}

// writePump pumps envelopes from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case envelope, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if err := json.NewEncoder(w).Encode(envelope); err != nil {
				c.hub.log.Warn("encode outbound envelope failed", zap.Error(err))
			}

			// Drain queued messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				next := <-c.send
				if err := json.NewEncoder(w).Encode(next); err != nil {
					c.hub.log.Warn("encode queued envelope failed", zap.Error(err))
				}
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues an envelope for this client, dropping it if the buffer is full.
func (c *Client) Send(envelope *ServerEnvelope) {
	select {
	case c.send <- envelope:
	default:
		c.hub.log.Warn("client send buffer full",
			zap.String("room", c.RoomCode), zap.String("player", c.PlayerID))
	}
}

// SendError queues an error envelope for this client.
func (c *Client) SendError(message string) {
	c.Send(&ServerEnvelope{Type: ServerTypeError, Payload: map[string]interface{}{"message": message}})
}
