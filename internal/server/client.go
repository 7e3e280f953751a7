package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 1024
	clientSendBuffer = 32
)

// Client wraps a single websocket connection managed by the Hub.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	log       *zap.Logger
	closeOnce sync.Once
}

// NewClient creates a new Client for the given websocket connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		log:  hub.log,
	}
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump drains the connection until it closes. The page never sends
// application messages; reading only services pings and detects disconnect.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow()
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				c.log.Debug("ws client disconnected", zap.Int("status", int(status)))
			}
			return
		}
	}
}

// WritePump forwards hub messages to the connection until the send channel
// closes or a write fails.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow()

	for msg := range c.send {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := c.conn.Write(writeCtx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			return
		}
	}

	c.conn.Close(websocket.StatusNormalClosure, "server shutting down")
}
