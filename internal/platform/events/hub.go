package events

import (
	"sync"
	"time"
)

// Change describes a single row mutation on a table.
type Change struct {
	Table      string    `json:"table"`
	Action     string    `json:"action"` // INSERT, UPDATE, DELETE
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

const subscriberBuffer = 16

// Hub fans table change notifications out to screen-scoped subscribers.
// Subscriptions live only as long as the screen that opened them; callers
// must invoke the returned unsubscribe func on teardown.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Change
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[int]chan Change{}}
}

// Subscribe returns a channel receiving changes for table and a func that
// removes the subscription and closes the channel.
func (h *Hub) Subscribe(table string) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Change, subscriberBuffer)
	if h.subs[table] == nil {
		h.subs[table] = map[int]chan Change{}
	}
	h.subs[table][id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[table][id]; ok {
			delete(h.subs[table], id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers a change to every subscriber of the table. Slow
// subscribers whose buffer is full miss the event; screens re-fetch on the
// next event so a dropped notification is not fatal.
func (h *Hub) Publish(table, action, recordID string) {
	change := Change{
		Table:      table,
		Action:     action,
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[table] {
		select {
		case ch <- change:
		default:
		}
	}
}

// SubscriberCount reports live subscriptions for a table.
func (h *Hub) SubscriberCount(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[table])
}
