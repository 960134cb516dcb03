package tcp

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

var (
	_ core.FrameListener = (*Listener)(nil)
	_ core.FrameConn     = (*Conn)(nil)
)

// Listener accepts stream connections carrying fixed-size frames.
type Listener struct {
	ln           net.Listener
	writeTimeout time.Duration
}

func Listen(addr string, writeTimeout time.Duration) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp listen %s: %w", addr, err)
	}
	log.Info().Str("module", "adapters.tcp").Str("addr", ln.Addr().String()).Msg("listening")
	return &Listener{ln: ln, writeTimeout: writeTimeout}, nil
}

func NewListener(ln net.Listener, writeTimeout time.Duration) *Listener {
	return &Listener{ln: ln, writeTimeout: writeTimeout}
}

func (l *Listener) Accept() (core.FrameConn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(c, l.writeTimeout), nil
}

func (l *Listener) Close() error  { return l.ln.Close() }
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Conn implements core.FrameConn over a net.Conn.
type Conn struct {
	conn         net.Conn
	r            *bufio.Reader
	writeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func NewConn(c net.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		conn:         c,
		r:            bufio.NewReaderSize(c, protocol.FrameSize*4),
		writeTimeout: writeTimeout,
	}
}

func (c *Conn) ReadFrame() (protocol.Frame, error) {
	return protocol.ReadFrame(c.r)
}

func (c *Conn) WriteFrame(f protocol.Frame) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return protocol.WriteFrame(c.conn, f)
}

func (c *Conn) SetReadDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }
func (c *Conn) RemoteAddr() string               { return c.conn.RemoteAddr().String() }

func (c *Conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.conn.Close() })
	return c.closeErr
}
