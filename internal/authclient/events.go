package authclient

import (
	"sync"

	"github.com/dimitrije/stockroom/internal/models"
	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is an authentication change. Session is nil for EventSignedOut.
type Event struct {
	Type    EventType
	Session *models.Session
}

const subscriberBuffer = 16

// Subscription delivers auth events until Unsubscribe is called.
type Subscription struct {
	Events <-chan Event

	once   sync.Once
	cancel func()
}

// NewSubscription wraps an event channel from another source. cancel runs once
// on Unsubscribe.
func NewSubscription(events <-chan Event, cancel func()) *Subscription {
	return &Subscription{Events: events, cancel: cancel}
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type broker struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
	log  *zap.Logger
}

func newBroker(log *zap.Logger) *broker {
	return &broker{
		subs: make(map[int]chan Event),
		log:  log,
	}
}

func (b *broker) subscribe() *Subscription {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	return &Subscription{
		Events: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		},
	}
}

func (b *broker) publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn("auth event dropped, subscriber buffer full", zap.String("event", string(ev.Type)))
		}
	}
}

func (b *broker) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
