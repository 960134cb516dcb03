package orch

import (
	"errors"
	"io"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func welcomeLine(name string) string { return protocol.Truncate(name + " just joins, welcome!") }
func goodbyeLine(name string) string { return protocol.Truncate(name + " just leaves, goodbye!") }
func chatLine(name, text string) string {
	return protocol.Truncate(name + ": " + text)
}

// runSession owns s from admission until it is closed.
func (o *Orchestrator) runSession(s *core.Session) {
	defer s.Finish()
	logger := log.With().
		Str("module", "orch.session").
		Str("sid", string(s.ID())).
		Str("name", s.Name()).
		Logger()

	if !o.activate(s, &logger) {
		return
	}
	goodbye := o.readLoop(s, &logger)
	o.leave(s, goodbye, &logger)
}

// activate inserts s and confirms the join. The write lock is held across
// both steps so JOIN_OK is the first frame the client ever sees.
func (o *Orchestrator) activate(s *core.Session, logger *zerolog.Logger) bool {
	_ = s.Conn().SetReadDeadline(time.Time{})

	err := s.Exclusive(func(send func(protocol.Frame) error) error {
		if err := o.Registry.Insert(s); err != nil {
			if errors.Is(err, app.ErrRegistryClosed) {
				_ = send(protocol.ServerClose())
			} else {
				_ = send(protocol.Fail(protocol.CodeOther))
			}
			return err
		}
		if err := send(protocol.JoinOK()); err != nil {
			o.Registry.Remove(s)
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("activation failed")
		return false
	}
	logger.Info().Str("addr", s.Meta().Addr).Msg("joined")

	if err := o.Queue.Push(s.Context(), welcomeLine(s.Name())); err != nil {
		logger.Info().Err(err).Msg("welcome not enqueued")
	}
	return true
}

// readLoop serves frames until the session ends and reports whether the
// departure should be announced to the room.
func (o *Orchestrator) readLoop(s *core.Session, logger *zerolog.Logger) bool {
	conn := s.Conn()
	for {
		f, err := conn.ReadFrame()
		if err != nil {
			return o.classify(s, err, logger)
		}
		switch f.Op {
		case protocol.OpSend:
			if f.Aux < 0 || f.Aux > protocol.ContentSize {
				logger.Warn().Int32("aux", f.Aux).Msg("send frame rejected: bad content length")
				continue
			}
			if err := o.Queue.Push(s.Context(), chatLine(s.Name(), f.Text)); err != nil {
				return o.classify(s, err, logger)
			}
		case protocol.OpDepart:
			logger.Info().Msg("departed")
			return true
		default:
			logger.Warn().Stringer("op", f.Op).Msg("unexpected opcode, closing session")
			return false
		}
	}
}

func (o *Orchestrator) classify(s *core.Session, err error, logger *zerolog.Logger) bool {
	if cause := s.Cause(); cause != nil {
		switch {
		case errors.Is(cause, core.ErrKicked):
			logger.Info().Msg("kicked")
			return true
		case errors.Is(cause, core.ErrShutdown):
			logger.Info().Msg("stopped by shutdown")
		default:
			logger.Warn().Err(cause).Msg("session cancelled")
		}
		return false
	}
	if errors.Is(err, io.EOF) {
		logger.Info().Msg("peer closed connection")
		return true
	}
	logger.Error().Err(err).Msg("session i/o failure")
	return false
}

// leave drops s from the registry, closes the connection and announces
// the departure if asked and the member was still registered.
func (o *Orchestrator) leave(s *core.Session, goodbye bool, logger *zerolog.Logger) {
	removed := o.Registry.Remove(s)
	_ = s.Close()
	if !removed {
		// Drained by the shutdown coordinator.
		return
	}
	if !goodbye {
		return
	}
	if err := o.Queue.Push(o.ctx, goodbyeLine(s.Name())); err != nil {
		logger.Info().Err(err).Msg("goodbye not enqueued")
	}
}
