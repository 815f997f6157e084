package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cafesync/internal/domain"
)

const (
	sendQueue      = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

// Client is one websocket connection. The reader and writer each run in
// their own goroutine.
type Client struct {
	id       string
	employee string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

// Serve registers conn with the hub and pumps frames until either side
// closes. It blocks for the lifetime of the connection.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, employee string) {
	c := &Client{
		id:       uuid.NewString(),
		employee: employee,
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendQueue),
	}
	h.register(c)
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) readPump(ctx context.Context) {
	defer c.close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.lg.Debug("client_read_failed", map[string]any{"client": c.id, "error": err.Error()})
			}
			return
		}
		ev, err := domain.DecodeClientEvent(msg)
		if err != nil {
			frame, _ := json.Marshal(domain.Event{Type: domain.EventError, Error: err.Error()})
			c.hub.sendTo(c, frame)
			continue
		}
		c.hub.receive(ctx, c, ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
