package orch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

var _ core.RoomService = (*Orchestrator)(nil)

type Options struct {
	Room        domain.Room
	JoinTimeout time.Duration
	Policy      app.Policy
	// Limiter is optional; nil admits every JOIN attempt.
	Limiter *app.JoinRateLimiter
}

// Orchestrator is the server context: it owns the registry, the message
// queue and the dispatcher, and tracks every session worker it spawns.
type Orchestrator struct {
	Room     domain.Room
	Registry *app.Registry
	Queue    *core.MessageQueue
	Policy   app.Policy
	Limiter  *app.JoinRateLimiter

	joinTimeout time.Duration
	dispatcher  *app.Dispatcher

	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	closing  bool
	workers  conc.WaitGroup
	shutdown sync.Once
	done     chan struct{}
}

func New(opts Options) *Orchestrator {
	if opts.Room.Capacity <= 0 {
		opts.Room.Capacity = 20
	}
	if opts.Room.QueueSize <= 0 {
		opts.Room.QueueSize = 20
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	registry := app.NewRegistry(opts.Room.Capacity)
	queue := core.NewMessageQueue(opts.Room.QueueSize)
	return &Orchestrator{
		Room:        opts.Room,
		Registry:    registry,
		Queue:       queue,
		Policy:      opts.Policy,
		Limiter:     opts.Limiter,
		joinTimeout: opts.JoinTimeout,
		dispatcher:  app.NewDispatcher(queue, registry, opts.Policy),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start launches the dispatcher.
func (o *Orchestrator) Start() {
	o.dispatcher.Start(o.ctx)
	log.Info().
		Str("module", "orch").
		Str("room", string(o.Room.Name)).
		Int("capacity", o.Room.Capacity).
		Int("queue_size", o.Room.QueueSize).
		Msg("room opened")
}

// Serve runs the acceptor loop: connections are accepted and their join
// handshakes resolved one at a time. It returns nil once ctx is done or
// the orchestrator shuts down, and an error if the listener fails.
func (o *Orchestrator) Serve(ctx context.Context, ln core.FrameListener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopOnShutdown := context.AfterFunc(o.ctx, cancel)
	defer stopOnShutdown()
	stopListener := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stopListener()

	log.Info().Str("module", "orch.acceptor").Str("addr", ln.Addr().String()).Msg("accepting connections")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info().Str("module", "orch.acceptor").Msg("acceptor stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		o.Accept(conn)
	}
}

func (o *Orchestrator) Info() core.RoomInfo {
	return core.RoomInfo{
		Name:     o.Room.Name,
		Members:  o.Registry.Len(),
		Capacity: o.Registry.Capacity(),
		QueueLen: o.Queue.Len(),
		QueueCap: o.Queue.Cap(),
	}
}

func (o *Orchestrator) Closing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closing
}

// Done is closed once Shutdown has completed.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Shutdown stops the dispatcher, tells every member the server is
// closing, stops every worker and releases the queue. It returns only
// after all of them are confirmed stopped. Later calls wait for the
// first one and do nothing else.
func (o *Orchestrator) Shutdown() {
	o.shutdown.Do(o.teardown)
	<-o.done
}

func (o *Orchestrator) teardown() {
	logger := log.With().Str("module", "orch.shutdown").Logger()
	logger.Info().Msg("shutting down room")

	o.mu.Lock()
	o.closing = true
	o.mu.Unlock()

	o.dispatcher.Stop()

	sessions := o.Registry.Drain()
	for _, s := range sessions {
		if err := s.Send(protocol.ServerClose()); err != nil {
			logger.Warn().Err(err).Str("sid", string(s.ID())).Str("name", s.Name()).Msg("close notice not delivered")
		}
		s.Cancel(core.ErrShutdown)
		<-s.Done()
		_ = s.Close()
	}

	// Workers still between admission and insertion.
	o.cancel(core.ErrShutdown)
	o.workers.Wait()

	o.Queue.Close()
	logger.Info().Int("sessions", len(sessions)).Msg("room closed")
	close(o.done)
}
