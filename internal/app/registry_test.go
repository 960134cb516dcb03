package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_UniqueNames(t *testing.T) {
	r := NewRegistry(20)
	alice := newSession(t, "alice", newRecordingConn())
	admit(t, r, alice)

	if err := r.Reserve("alice"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second alice: err = %v, want ErrDuplicateName", err)
	}
	if err := r.Reserve("bob"); err != nil {
		t.Fatal(err)
	}
	// A pending reservation blocks the name too.
	if err := r.Reserve("bob"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second bob: err = %v, want ErrDuplicateName", err)
	}
	if got, ok := r.Get("alice"); !ok || got != alice {
		t.Fatal("original alice lost")
	}
}

func TestRegistry_Capacity(t *testing.T) {
	const capacity = 20
	r := NewRegistry(capacity)
	for i := 0; i < capacity; i++ {
		admit(t, r, newSession(t, fmt.Sprintf("user%d", i), newRecordingConn()))
	}
	if err := r.Reserve("bob"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if r.Len() != capacity {
		t.Fatalf("len = %d, want %d", r.Len(), capacity)
	}
}

func TestRegistry_ReservationsCountTowardCapacity(t *testing.T) {
	r := NewRegistry(2)
	if err := r.Reserve("a"); err != nil {
		t.Fatal(err)
	}
	if err := r.Reserve("b"); err != nil {
		t.Fatal(err)
	}
	if err := r.Reserve("c"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	r.Unreserve("a")
	if err := r.Reserve("c"); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_InsertRequiresReservation(t *testing.T) {
	r := NewRegistry(5)
	if err := r.Insert(newSession(t, "ghost", newRecordingConn())); !errors.Is(err, ErrNotReserved) {
		t.Fatalf("err = %v, want ErrNotReserved", err)
	}
}

func TestRegistry_RemovePreservesOrder(t *testing.T) {
	cases := []struct {
		remove string
		want   []string
	}{
		{"a", []string{"b", "c", "d"}},
		{"d", []string{"a", "b", "c"}},
		{"b", []string{"a", "c", "d"}},
	}
	for _, c := range cases {
		r := NewRegistry(10)
		for _, n := range []string{"a", "b", "c", "d"} {
			admit(t, r, newSession(t, n, newRecordingConn()))
		}
		s, _ := r.Get(c.remove)
		if !r.Remove(s) {
			t.Fatalf("remove %s failed", c.remove)
		}
		var got []string
		for _, s := range r.Snapshot() {
			got = append(got, s.Name())
		}
		if fmt.Sprint(got) != fmt.Sprint(c.want) {
			t.Errorf("remove %s: order = %v, want %v", c.remove, got, c.want)
		}
	}
}

func TestRegistry_RemoveSoleAndStale(t *testing.T) {
	r := NewRegistry(10)
	first := newSession(t, "solo", newRecordingConn())
	admit(t, r, first)
	if !r.Remove(first) {
		t.Fatal("remove sole member failed")
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d", r.Len())
	}
	if r.Remove(first) {
		t.Fatal("second remove must be a no-op")
	}

	// A stale session must not evict a newer member with the same name.
	second := newSession(t, "solo", newRecordingConn())
	admit(t, r, second)
	if r.Remove(first) {
		t.Fatal("stale session removed the new member")
	}
	if got, _ := r.Get("solo"); got != second {
		t.Fatal("new member lost")
	}
}

func TestRegistry_Drain(t *testing.T) {
	r := NewRegistry(10)
	admit(t, r, newSession(t, "a", newRecordingConn()))
	admit(t, r, newSession(t, "b", newRecordingConn()))
	if err := r.Reserve("pending"); err != nil {
		t.Fatal(err)
	}

	drained := r.Drain()
	if len(drained) != 2 || drained[0].Name() != "a" || drained[1].Name() != "b" {
		t.Fatalf("drained %d sessions", len(drained))
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d after drain", r.Len())
	}
	if err := r.Reserve("c"); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("reserve after drain: %v", err)
	}
	if err := r.Insert(newSession(t, "pending", newRecordingConn())); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("insert after drain: %v", err)
	}
}

func TestRegistry_ConcurrentJoinsNeverExceedCapacity(t *testing.T) {
	const capacity, joiners = 5, 50
	r := NewRegistry(capacity)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every other joiner asks for the same name.
			name := fmt.Sprintf("u%d", i)
			if i%2 == 0 {
				name = "same"
			}
			if err := r.Reserve(name); err != nil {
				return
			}
			mu.Lock()
			admitted++
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	if admitted > capacity {
		t.Fatalf("admitted %d > capacity %d", admitted, capacity)
	}
}
