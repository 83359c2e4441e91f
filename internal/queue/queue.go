package queue

import (
	"context"
	"time"
)

const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventDeleted   = "deleted"
	EventMoved     = "moved"
	EventReordered = "reordered"
	EventPublished = "published"
)

// Event describes one structural change to the book tree. Downstream
// consumers (indexing, AI summarization) subscribe to these instead of
// polling the store.
type Event struct {
	Kind   string    `json:"kind"`
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	BookID string    `json:"bookId,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher appends entity change events to the queue.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close()
}

// Nop discards every event. Used when no broker is configured.
type Nop struct {
}

func NewNop() Nop {
	return Nop{}
}

func (n Nop) Publish(ctx context.Context, event *Event) error {
	return nil
}

func (n Nop) Close() {
}
