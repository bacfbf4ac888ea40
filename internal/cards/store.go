package cards

import (
	"context"
	"errors"
	"sync"
)

// State of a ListStore.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	LoadError
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "error"
	}
	return "idle"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ErrClosed is returned by Load on an unmounted store.
var ErrClosed = errors.New("list store closed")

// Lister is the part of Repository a ListStore needs.
type Lister interface {
	ListAll(ctx context.Context) ([]Card, error)
}

// ListStore holds the fetched card list of one mounted view.
//
// Reload is the only invalidation: after a successful mutation the caller
// reloads the whole list rather than patching the changed card. A failed
// load keeps the previous cards. When loads overlap, a result older than
// one already applied is dropped, and nothing is applied after Close.
type ListStore struct {
	repo Lister

	mu      sync.Mutex
	state   State
	cards   []Card
	err     error
	issued  uint64
	applied uint64
	reloads int
	closed  bool
}

// NewListStore returns an Idle store.
func NewListStore(repo Lister) *ListStore {
	return &ListStore{repo: repo}
}

// Load fetches all cards.
func (s *ListStore) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.issued++
	seq := s.issued
	s.state = Loading
	s.mu.Unlock()

	cs, err := s.repo.ListAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq < s.applied {
		return err
	}
	s.applied = seq
	if err != nil {
		s.err = err
		if seq == s.issued {
			s.state = LoadError
		}
		return err
	}
	if cs == nil {
		cs = []Card{}
	}
	s.cards = cs
	s.err = nil
	if seq == s.issued {
		s.state = Loaded
	}
	return nil
}

// Reload invalidates the list and fetches it again.
func (s *ListStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.reloads++
	s.mu.Unlock()
	return s.Load(ctx)
}

// Close marks the store unmounted; in-flight results are discarded.
func (s *ListStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *ListStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the error of the last applied load, nil after a success.
func (s *ListStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reloads counts Reload calls.
func (s *ListStore) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

// Cards returns a copy of the current list.
func (s *ListStore) Cards() []Card {
	return s.Select(All)
}

// Select applies p to the current list. It is recomputed on every call.
func (s *ListStore) Select(p Predicate) []Card {
	s.mu.Lock()
	cs := s.cards
	s.mu.Unlock()
	return Filter(cs, p)
}
