package ws

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/protocol"
	"github.com/gorilla/websocket"
)

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	WriteControl(mt int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Conn carries one protocol frame per binary WebSocket message.
// It implements core.FrameConn.
type Conn struct {
	conn         WSConn
	addr         string
	writeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func NewConn(conn WSConn, addr string, writeTimeout time.Duration) *Conn {
	return &Conn{conn: conn, addr: addr, writeTimeout: writeTimeout}
}

// ReadFrame reports a normal close from the peer as io.EOF.
func (c *Conn) ReadFrame() (protocol.Frame, error) {
	mt, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return protocol.Frame{}, io.EOF
		}
		return protocol.Frame{}, err
	}
	if mt != websocket.BinaryMessage {
		return protocol.Frame{}, fmt.Errorf("%w: message type %d", protocol.ErrFrameSize, mt)
	}
	return protocol.DecodeBytes(data)
}

func (c *Conn) WriteFrame(f protocol.Frame) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	buf := protocol.Encode(f)
	return c.conn.WriteMessage(websocket.BinaryMessage, buf[:])
}

func (c *Conn) SetReadDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }
func (c *Conn) RemoteAddr() string               { return c.addr }

// Close sends a close message before dropping the connection.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
