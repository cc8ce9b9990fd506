package ws

import (
	"encoding/json"
	"time"

	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one subscriber connection to a series' event stream.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	seriesID string
	log      *logger.Logger
}

// NewClient builds a Client subscribed to seriesID over conn.
func NewClient(hub *Hub, conn *websocket.Conn, seriesID string, log *logger.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		seriesID: seriesID,
		log:      log,
	}
}

// Register registers the client with its hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump drains client-initiated frames (ping keepalives); any other
// content is ignored since this is an outbound event stream.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.LogError("publisher client read error", err, zap.String("series_id", c.seriesID))
			}
			break
		}
		var msg Message
		if json.Unmarshal(data, &msg) == nil && msg.Type == MessageTypePing {
			c.sendPong()
		}
	}
}

// WritePump flushes queued events to the client and keeps the connection
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
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

func (c *Client) sendPong() {
	data, err := json.Marshal(&Message{SeriesID: c.seriesID, Type: MessageTypePong})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Info("publisher client send buffer full")
	}
}
