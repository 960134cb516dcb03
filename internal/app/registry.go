package app

import (
	"container/list"
	"errors"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/rs/zerolog/log"
)

var (
	ErrDuplicateName  = errors.New("display name already in use")
	ErrRoomFull       = errors.New("room is full")
	ErrNotReserved    = errors.New("display name was not reserved")
	ErrRegistryClosed = errors.New("registry closed")
)

// Registry is the ordered set of active sessions keyed by display name.
//
// Admission happens in two steps: Reserve claims a name on behalf of a
// session whose worker has not started yet, Insert turns that claim into
// a member. Reservations count toward capacity and uniqueness, so two
// racing joins can never both pass admission for one name or one seat.
type Registry struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // *core.Session, insertion order
	byName   map[string]*list.Element
	reserved map[string]struct{}
	closed   bool
}

func NewRegistry(capacity int) *Registry {
	return &Registry{
		capacity: capacity,
		order:    list.New(),
		byName:   make(map[string]*list.Element),
		reserved: make(map[string]struct{}),
	}
}

func (r *Registry) Capacity() int { return r.capacity }

func (r *Registry) Reserve(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	if r.order.Len()+len(r.reserved) >= r.capacity {
		return ErrRoomFull
	}
	_, active := r.byName[name]
	_, pending := r.reserved[name]
	if active || pending {
		return ErrDuplicateName
	}
	r.reserved[name] = struct{}{}
	return nil
}

// Unreserve drops a claim whose session will never be inserted.
func (r *Registry) Unreserve(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reserved, name)
}

// Insert appends s at the tail, consuming the reservation for its name.
func (r *Registry) Insert(s *core.Session) error {
	name := s.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reserved[name]; !ok {
		if r.closed {
			return ErrRegistryClosed
		}
		return ErrNotReserved
	}
	delete(r.reserved, name)
	if r.closed {
		return ErrRegistryClosed
	}
	r.byName[name] = r.order.PushBack(s)
	log.Info().Str("module", "app.registry").Str("sid", string(s.ID())).Str("name", name).Int("count", r.order.Len()).Msg("session inserted")
	return nil
}

// Remove deletes s if it is still the member registered under its name.
func (r *Registry) Remove(s *core.Session) bool {
	name := s.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.byName[name]
	if !ok || el.Value.(*core.Session) != s {
		return false
	}
	r.order.Remove(el)
	delete(r.byName, name)
	log.Info().Str("module", "app.registry").Str("sid", string(s.ID())).Str("name", name).Int("count", r.order.Len()).Msg("session removed")
	return true
}

func (r *Registry) Get(name string) (*core.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return el.Value.(*core.Session), true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// Snapshot returns the members in registry order.
func (r *Registry) Snapshot() []*core.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.Session, 0, r.order.Len())
	for el := r.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*core.Session))
	}
	return out
}

func (r *Registry) Members() []core.MemberDTO {
	sessions := r.Snapshot()
	out := make([]core.MemberDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.DTO())
	}
	return out
}

// Drain empties the registry and refuses any further reservation or
// insertion. The returned sessions are owned by the caller.
func (r *Registry) Drain() []*core.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	out := make([]*core.Session, 0, r.order.Len())
	for el := r.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*core.Session))
	}
	r.order.Init()
	clear(r.byName)
	return out
}
