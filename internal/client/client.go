package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dkeye/Relay/internal/adapters/tcp"
	"github.com/dkeye/Relay/internal/adapters/ws"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/gorilla/websocket"
)

var (
	ErrServerClosing = errors.New("server closing")
	ErrUnexpected    = errors.New("unexpected frame")
)

// JoinError carries the code of a SERVER_FAIL reply to JOIN.
type JoinError struct {
	Code protocol.ErrorCode
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join refused: %s (%d)", e.Code, int32(e.Code))
}

// Client speaks the chat protocol over any FrameConn.
type Client struct {
	conn core.FrameConn
}

func New(conn core.FrameConn) *Client { return &Client{conn: conn} }

// Dial connects over TCP.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(tcp.NewConn(c, 0)), nil
}

// DialWS connects to the WebSocket endpoint, e.g. ws://host:8080/ws/join.
func DialWS(ctx context.Context, url string) (*Client, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return New(ws.NewConn(c, c.RemoteAddr().String(), 0)), nil
}

// Join sends the join request and waits for the verdict.
func (c *Client) Join(name string) error {
	if err := c.conn.WriteFrame(protocol.Join(name)); err != nil {
		return err
	}
	f, err := c.conn.ReadFrame()
	if err != nil {
		return err
	}
	switch f.Op {
	case protocol.OpJoinOK:
		return nil
	case protocol.OpServerFail:
		return &JoinError{Code: protocol.ErrorCode(f.Aux)}
	case protocol.OpServerClose:
		return ErrServerClosing
	default:
		return fmt.Errorf("%w: %s", ErrUnexpected, f.Op)
	}
}

func (c *Client) Send(text string) error {
	return c.conn.WriteFrame(protocol.Send(text))
}

func (c *Client) Depart() error {
	return c.conn.WriteFrame(protocol.Depart())
}

// Recv returns the next frame from the server.
func (c *Client) Recv() (protocol.Frame, error) {
	return c.conn.ReadFrame()
}

// RecvLine returns the text of the next BROADCAST frame. A SERVER_CLOSE
// yields ErrServerClosing.
func (c *Client) RecvLine() (string, error) {
	f, err := c.conn.ReadFrame()
	if err != nil {
		return "", err
	}
	switch f.Op {
	case protocol.OpBroadcast:
		return f.Text, nil
	case protocol.OpServerClose:
		return "", ErrServerClosing
	default:
		return "", fmt.Errorf("%w: %s", ErrUnexpected, f.Op)
	}
}

func (c *Client) SetReadDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }

// Conn exposes the underlying transport for raw frame access.
func (c *Client) Conn() core.FrameConn { return c.conn }

func (c *Client) Close() error { return c.conn.Close() }
