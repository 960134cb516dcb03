package core

import (
	"net"
	"time"

	"github.com/dkeye/Relay/internal/protocol"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_conn.go -package=mocks

type SessionID string

// FrameConn abstracts a transport that exchanges whole protocol frames.
// Owned by the session worker; Close must be safe to call more than once.
type FrameConn interface {
	ReadFrame() (protocol.Frame, error)
	WriteFrame(protocol.Frame) error
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

// FrameListener yields FrameConns for the acceptor loop.
type FrameListener interface {
	Accept() (FrameConn, error)
	Close() error
	Addr() net.Addr
}
