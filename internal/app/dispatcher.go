package app

import (
	"context"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dispatcher is the single consumer of the message queue. Each line is
// delivered to every member before the next one is dequeued, so all
// clients observe one global order.
type Dispatcher struct {
	queue    *core.MessageQueue
	registry *Registry
	policy   Policy

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(queue *core.MessageQueue, registry *Registry, policy Policy) *Dispatcher {
	return &Dispatcher{queue: queue, registry: registry, policy: policy}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		return
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	logger := log.With().Str("module", "app.dispatcher").Logger()
	go d.loop(ctx, &logger)
}

// Stop cancels the loop and waits for it. An in-flight broadcast completes.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
}

func (d *Dispatcher) loop(ctx context.Context, logger *zerolog.Logger) {
	defer close(d.done)
	logger.Info().Msg("dispatcher started")
	for {
		line, err := d.queue.Pop(ctx)
		if err != nil {
			logger.Info().Err(err).Msg("dispatcher stopped")
			return
		}
		d.Broadcast(line)
	}
}

// Broadcast sends line to every member in registry order. A failed send
// never aborts delivery to the rest.
func (d *Dispatcher) Broadcast(line string) core.PublishResult {
	res := core.PublishResult{}
	frame := protocol.Broadcast(line)
	for _, s := range d.registry.Snapshot() {
		if err := s.Send(frame); err != nil {
			log.Warn().
				Err(err).
				Str("module", "app.dispatcher").
				Str("sid", string(s.ID())).
				Str("name", s.Name()).
				Msg("broadcast send failed")
			res.Dropped = append(res.Dropped, s)
			d.onFailure(s, err)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.dispatcher").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (d *Dispatcher) onFailure(s *core.Session, err error) {
	if d.policy == nil {
		return
	}
	switch d.policy.OnSendFailure(s, err) {
	case KickMember:
		s.Cancel(core.ErrSlowConsumer)
	case NoAction:
	}
}
