package app

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
)

// recordingConn keeps every written frame and never returns from
// ReadFrame until closed.
type recordingConn struct {
	mu     sync.Mutex
	frames []protocol.Frame
	closed chan struct{}
	once   sync.Once
}

func newRecordingConn() *recordingConn {
	return &recordingConn{closed: make(chan struct{})}
}

func (c *recordingConn) ReadFrame() (protocol.Frame, error) {
	<-c.closed
	return protocol.Frame{}, io.EOF
}

func (c *recordingConn) WriteFrame(f protocol.Frame) error {
	select {
	case <-c.closed:
		return io.ErrClosedPipe
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordingConn) SetReadDeadline(time.Time) error { return nil }
func (c *recordingConn) RemoteAddr() string              { return "127.0.0.1:1" }

func (c *recordingConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *recordingConn) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		if f.Op == protocol.OpBroadcast {
			out = append(out, f.Text)
		}
	}
	return out
}

func newSession(t *testing.T, name string, conn core.FrameConn) *core.Session {
	t.Helper()
	user, err := domain.NewUser(name)
	if err != nil {
		t.Fatal(err)
	}
	return core.NewSession(context.Background(), domain.NewMember(user, conn.RemoteAddr()), conn)
}

func admit(t *testing.T, r *Registry, s *core.Session) {
	t.Helper()
	if err := r.Reserve(s.Name()); err != nil {
		t.Fatalf("reserve %s: %v", s.Name(), err)
	}
	if err := r.Insert(s); err != nil {
		t.Fatalf("insert %s: %v", s.Name(), err)
	}
}
