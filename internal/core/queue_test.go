package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMessageQueue_FIFO(t *testing.T) {
	q := NewMessageQueue(3)
	ctx := context.Background()
	// Wrap around the ring twice.
	for round := 0; round < 2; round++ {
		for i := 0; i < 3; i++ {
			if err := q.Push(ctx, fmt.Sprintf("m%d", i)); err != nil {
				t.Fatal(err)
			}
		}
		if q.Len() != 3 {
			t.Fatalf("len = %d, want 3", q.Len())
		}
		for i := 0; i < 3; i++ {
			got, err := q.Pop(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if want := fmt.Sprintf("m%d", i); got != want {
				t.Fatalf("pop = %q, want %q", got, want)
			}
		}
	}
	if q.Len() != 0 {
		t.Fatalf("len = %d, want 0", q.Len())
	}
}

func TestMessageQueue_PushBlocksWhenFull(t *testing.T) {
	q := NewMessageQueue(1)
	ctx := context.Background()
	if err := q.Push(ctx, "first"); err != nil {
		t.Fatal(err)
	}

	pushed := make(chan error, 1)
	go func() { pushed <- q.Push(ctx, "second") }()

	select {
	case err := <-pushed:
		t.Fatalf("push into full queue returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if got, _ := q.Pop(ctx); got != "first" {
		t.Fatalf("pop = %q", got)
	}
	select {
	case err := <-pushed:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("producer was not released after a slot freed")
	}
	if got, _ := q.Pop(ctx); got != "second" {
		t.Fatalf("pop = %q, nothing may be dropped or overwritten", got)
	}
}

func TestMessageQueue_PopBlocksWhenEmpty(t *testing.T) {
	q := NewMessageQueue(2)
	got := make(chan string, 1)
	go func() {
		line, _ := q.Pop(context.Background())
		got <- line
	}()
	select {
	case line := <-got:
		t.Fatalf("pop on empty queue returned %q", line)
	case <-time.After(50 * time.Millisecond):
	}
	_ = q.Push(context.Background(), "x")
	select {
	case line := <-got:
		if line != "x" {
			t.Fatalf("pop = %q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer was not released")
	}
}

func TestMessageQueue_CancelUnblocks(t *testing.T) {
	q := NewMessageQueue(1)
	_ = q.Push(context.Background(), "full")

	ctx, cancel := context.WithCancelCause(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Push(ctx, "blocked") }()
	cancel(ErrShutdown)

	select {
	case err := <-done:
		if !errors.Is(err, ErrShutdown) {
			t.Fatalf("err = %v, want cause ErrShutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled producer still blocked")
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d, cancelled push must not occupy a slot", q.Len())
	}
}

func TestMessageQueue_CloseWakesWaiters(t *testing.T) {
	q := NewMessageQueue(1)
	done := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	q.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer still blocked after close")
	}
	if err := q.Push(context.Background(), "late"); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("push after close: %v", err)
	}
}

func TestMessageQueue_OccupancyBounded(t *testing.T) {
	const capacity, producers, perProducer = 4, 8, 50
	q := NewMessageQueue(capacity)
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = q.Push(ctx, fmt.Sprintf("%d-%d", p, i))
			}
		}(p)
	}

	seen := make(map[string]bool)
	lastFrom := make(map[string]int)
	for n := 0; n < producers*perProducer; n++ {
		if l := q.Len(); l < 0 || l > capacity {
			t.Fatalf("occupancy %d outside [0,%d]", l, capacity)
		}
		line, err := q.Pop(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if seen[line] {
			t.Fatalf("duplicate line %q", line)
		}
		seen[line] = true

		var p, i int
		fmt.Sscanf(line, "%d-%d", &p, &i)
		key := fmt.Sprint(p)
		if prev, ok := lastFrom[key]; ok && i <= prev {
			t.Fatalf("producer %d reordered: %d after %d", p, i, prev)
		}
		lastFrom[key] = i
	}
	wg.Wait()
	if len(seen) != producers*perProducer {
		t.Fatalf("got %d lines", len(seen))
	}
}
