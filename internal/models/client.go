package models

import (
	"github.com/gorilla/websocket"
)

// Client is one live dashboard connection. Frames are serialized once by
// the hub and queued here; a full queue means the client is skipped for
// that frame (dashboards reconnect and resync from the snapshot).
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

func (c *Client) Close() {
	if c.Conn != nil {
		c.Conn.Close()
	}
}
