package core

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/google/uuid"
)

// Cancellation causes observed by the session worker.
var (
	ErrShutdown     = errors.New("server shutting down")
	ErrKicked       = errors.New("kicked by operator")
	ErrSlowConsumer = errors.New("send to client failed")
)

// Session binds a room member and its transport endpoint.
// Only the owning worker reads from conn; writes from the worker, the
// dispatcher and the shutdown path are serialized by wmu.
type Session struct {
	id   SessionID
	meta *domain.Member
	conn FrameConn

	ctx    context.Context
	cancel context.CancelCauseFunc
	stop   func() bool

	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// NewSession derives the session lifetime from parent. Cancelling the
// session closes conn, which unblocks a worker parked in ReadFrame.
func NewSession(parent context.Context, meta *domain.Member, conn FrameConn) *Session {
	ctx, cancel := context.WithCancelCause(parent)
	s := &Session{
		id:     SessionID(uuid.NewString()),
		meta:   meta,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.stop = context.AfterFunc(ctx, func() { _ = s.Close() })
	return s
}

func (s *Session) ID() SessionID            { return s.id }
func (s *Session) Name() string             { return s.meta.User.Name }
func (s *Session) Meta() *domain.Member     { return s.meta }
func (s *Session) Conn() FrameConn          { return s.conn }
func (s *Session) Context() context.Context { return s.ctx }
func (s *Session) Done() <-chan struct{}    { return s.done }

func (s *Session) DTO() MemberDTO {
	return MemberDTO{
		ID:       s.id,
		UserID:   s.meta.User.ID,
		Name:     s.meta.User.Name,
		Addr:     s.meta.Addr,
		JoinedAt: s.meta.JoinedAt,
	}
}

func (s *Session) Send(f protocol.Frame) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteFrame(f)
}

// Exclusive runs fn while holding the write lock, so no other frame can
// reach the client until fn returns. fn must write through the given send.
func (s *Session) Exclusive(fn func(send func(protocol.Frame) error) error) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return fn(s.conn.WriteFrame)
}

// Cancel stops the session with cause. The first cause wins.
func (s *Session) Cancel(cause error) {
	s.cancel(cause)
}

// Cause returns why the session context was cancelled, or nil.
func (s *Session) Cause() error {
	return context.Cause(s.ctx)
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// Finish releases the session and marks its worker as stopped.
func (s *Session) Finish() {
	s.stop()
	s.cancel(context.Canceled)
	_ = s.Close()
	close(s.done)
}
