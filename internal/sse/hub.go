// Package sse fans inventory changes out to the members of an organization.
package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	EventItemChanged    = "item_changed"
	EventItemDeleted    = "item_deleted"
	EventLowStock       = "low_stock"
	EventRequestCreated = "request_created"
	EventRequestUpdated = "request_updated"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type ItemDeletedEvent struct {
	ItemID    uuid.UUID `json:"item_id"`
	DeletedBy uuid.UUID `json:"deleted_by"`
}

type Client struct {
	ID             string
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Send           chan []byte
}

type OrganizationMessage struct {
	OrganizationID uuid.UUID
	Event          Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *OrganizationMessage
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *OrganizationMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.OrganizationID != msg.OrganizationID {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// slow client, drop
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register and Unregister are no-ops once Run has returned.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues ev for every client of orgID. It never blocks; it reports
// false when the queue is full and the event was dropped.
func (h *Hub) Publish(orgID uuid.UUID, ev Event) bool {
	select {
	case h.broadcast <- &OrganizationMessage{OrganizationID: orgID, Event: ev}:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
