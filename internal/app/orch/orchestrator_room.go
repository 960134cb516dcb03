package orch

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errClosing = errors.New("server closing")

// Accept resolves the join handshake of conn. On success ownership of conn
// moves to a new session worker; on failure the client gets SERVER_FAIL
// and conn is closed.
func (o *Orchestrator) Accept(conn core.FrameConn) {
	addr := conn.RemoteAddr()
	logger := log.With().Str("module", "orch.acceptor").Str("addr", addr).Logger()

	if o.joinTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(o.joinTimeout))
	}
	stop := context.AfterFunc(o.ctx, func() { _ = conn.Close() })
	f, err := conn.ReadFrame()
	if !stop() {
		logger.Info().Msg("handshake interrupted by shutdown")
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("join handshake failed")
		_ = conn.Close()
		return
	}
	if f.Op != protocol.OpJoin {
		o.reject(conn, &logger, protocol.CodeUnknownCommand, errors.New("first frame is "+f.Op.String()))
		return
	}
	if o.Limiter != nil && !o.Limiter.Allow(hostOf(addr)) {
		o.reject(conn, &logger, protocol.CodeOther, errors.New("join rate limit exceeded"))
		return
	}

	user, err := domain.NewUser(f.Text)
	if err != nil {
		o.reject(conn, &logger, protocol.CodeOther, err)
		return
	}
	if err := o.Registry.Reserve(user.Name); err != nil {
		o.reject(conn, &logger, admissionCode(err), err)
		return
	}

	session, err := o.spawn(domain.NewMember(user, addr), conn)
	if err != nil {
		o.Registry.Unreserve(user.Name)
		o.reject(conn, &logger, protocol.CodeOther, err)
		return
	}
	logger.Info().Str("sid", string(session.ID())).Str("name", user.Name).Msg("admitted")
}

// spawn starts the worker of a reserved member. Workers are never started
// once shutdown has begun, so the coordinator's wait covers all of them.
func (o *Orchestrator) spawn(member *domain.Member, conn core.FrameConn) (*core.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closing {
		return nil, errClosing
	}
	s := core.NewSession(o.ctx, member, conn)
	o.workers.Go(func() { o.runSession(s) })
	return s, nil
}

func (o *Orchestrator) reject(conn core.FrameConn, logger *zerolog.Logger, code protocol.ErrorCode, reason error) {
	logger.Warn().Err(reason).Stringer("code", code).Msg("join rejected")
	if err := conn.WriteFrame(protocol.Fail(code)); err != nil {
		logger.Warn().Err(err).Msg("failure notice not delivered")
	}
	_ = conn.Close()
}

func admissionCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, app.ErrDuplicateName):
		return protocol.CodeDuplicateName
	case errors.Is(err, app.ErrRoomFull):
		return protocol.CodeRoomFull
	default:
		return protocol.CodeOther
	}
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func (o *Orchestrator) Members() []core.MemberDTO {
	return o.Registry.Members()
}

// Kick tells the named member the server is closing it and stops its
// worker. The rest of the room sees the goodbye line.
func (o *Orchestrator) Kick(name string) bool {
	s, ok := o.Registry.Get(name)
	if !ok {
		return false
	}
	if err := s.Send(protocol.ServerClose()); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(s.ID())).Str("name", name).Msg("close notice not delivered")
	}
	s.Cancel(core.ErrKicked)
	log.Info().Str("module", "orch").Str("sid", string(s.ID())).Str("name", name).Msg("member kicked")
	return true
}
