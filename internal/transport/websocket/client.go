package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// ClientMessage is a request sent by a remote move provider client
type ClientMessage struct {
	Type       string `json:"type"`
	ID         int    `json:"id,omitempty"`
	Board      string `json:"board,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Test       bool   `json:"test,omitempty"`
}

// ServerMessage answers a ClientMessage; ID echoes the request's ID
type ServerMessage struct {
	Type    string `json:"type"`
	ID      int    `json:"id,omitempty"`
	Move    *int   `json:"move,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	TypePredict = "predict"
	TypeMove    = "move"
	TypeError   = "error"
)

// Conn serialises writes to one socket; the keep-alive pinger and the
// reply path both write.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(message ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(message)
}

func (c *Conn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
