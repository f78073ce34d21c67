package authstate

import (
	"sync"

	"github.com/dimitrije/stockroom/internal/obs"
	"go.uber.org/zap"
)

// Store serializes every state change through Reduce and fans snapshots out to
// watchers. After Close, dispatches are ignored.
type Store struct {
	mu       sync.Mutex
	state    State
	epoch    uint64
	closed   bool
	watchers map[int]chan State
	nextID   int
	log      *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		watchers: make(map[int]chan State),
		log:      log,
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Dispatch applies a and returns the epoch after it, plus whether it was applied.
func (s *Store) Dispatch(a Action) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Debug("dispatch after close ignored", zap.String("action", string(a.Kind)))
		return s.epoch, false
	}

	next, epoch, applied := Reduce(s.state, s.epoch, a)
	obs.ObserveAuthTransition(string(a.Kind), applied)
	if !applied {
		s.log.Debug("stale action dropped",
			zap.String("action", string(a.Kind)),
			zap.Uint64("action_epoch", a.Epoch),
			zap.Uint64("epoch", s.epoch))
		return s.epoch, false
	}

	s.state = next
	s.epoch = epoch
	for _, ch := range s.watchers {
		offer(ch, next)
	}
	return epoch, true
}

// offer replaces any undelivered snapshot so watchers always see the latest one.
func offer(ch chan State, st State) {
	select {
	case ch <- st:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// Watch returns a channel that receives the current state and then every
// applied change. Slow readers only see the latest snapshot.
func (s *Store) Watch() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		ch <- s.state
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(c)
			}
		})
	}
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
}
