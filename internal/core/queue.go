package core

import (
	"context"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("message queue closed")

// MessageQueue is a fixed-capacity FIFO ring of outgoing lines.
// Producers block while it is full, the consumer blocks while it is empty;
// both waits end early when ctx is done or the queue is closed.
type MessageQueue struct {
	mu     sync.Mutex
	slots  []string
	head   int // next slot to pop, advanced by the consumer
	tail   int // next free slot, advanced by producers
	count  int
	closed bool

	// changed is closed and replaced on every state transition.
	changed chan struct{}
}

func NewMessageQueue(capacity int) *MessageQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MessageQueue{
		slots:   make([]string, capacity),
		changed: make(chan struct{}),
	}
}

func (q *MessageQueue) Push(ctx context.Context, line string) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed
		}
		if q.count < len(q.slots) {
			q.slots[q.tail] = line
			q.tail = (q.tail + 1) % len(q.slots)
			q.count++
			q.notifyLocked()
			q.mu.Unlock()
			return nil
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}

func (q *MessageQueue) Pop(ctx context.Context) (string, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return "", ErrQueueClosed
		}
		if q.count > 0 {
			line := q.slots[q.head]
			q.slots[q.head] = ""
			q.head = (q.head + 1) % len(q.slots)
			q.count--
			q.notifyLocked()
			q.mu.Unlock()
			return line, nil
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return "", context.Cause(ctx)
		}
	}
}

func (q *MessageQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func (q *MessageQueue) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slots)
}

// Close drops pending lines, releases the slots and wakes every waiter.
func (q *MessageQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.count = 0
	q.slots = nil
	q.notifyLocked()
}

func (q *MessageQueue) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}
